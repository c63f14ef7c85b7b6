// Package titleformat implements the %-code title formatting language used by
// the status line templates, e.g. "%a - %t" or "%e / %l".
package titleformat

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/genricoloni/playstatus/internal/domain"
	"go.uber.org/zap"
)

// Codes lists every supported field code and what it expands to
var Codes = map[byte]string{
	'a': "artist",
	't': "title",
	'b': "album",
	'B': "album artist, falling back to artist",
	'n': "track number, two digits",
	'y': "year",
	'g': "genre",
	'c': "comment",
	'f': "file name",
	'F': "location",
	'e': "elapsed time",
	'l': "length",
	's': "playback status",
	'%': "a literal percent sign",
}

type segment struct {
	literal string
	code    byte
}

type compiled struct {
	src      string
	segments []segment
	released bool
}

// Compiler compiles and evaluates title format templates.
// It counts live compiled templates so leaks are observable.
type Compiler struct {
	logger *zap.Logger
	mu     sync.Mutex
	live   int
}

var _ domain.TemplateCompiler = (*Compiler)(nil)

// NewCompiler creates a title format compiler
func NewCompiler(logger *zap.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile parses src into literal and field segments
func (c *Compiler) Compile(src string) (domain.CompiledTemplate, error) {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		if src[i] != '%' {
			lit.WriteByte(src[i])
			continue
		}
		if i+1 >= len(src) {
			return nil, fmt.Errorf("%w: dangling %% at offset %d in %q", domain.ErrCompile, i, src)
		}
		code := src[i+1]
		if _, ok := Codes[code]; !ok {
			return nil, fmt.Errorf("%w: unknown field code %%%c at offset %d in %q", domain.ErrCompile, code, i, src)
		}
		i++
		if code == '%' {
			lit.WriteByte('%')
			continue
		}
		flush()
		segs = append(segs, segment{code: code})
	}
	flush()

	c.mu.Lock()
	c.live++
	c.mu.Unlock()

	return &compiled{src: src, segments: segs}, nil
}

// Evaluate expands ct against track and cuts the result to maxLen runes
func (c *Compiler) Evaluate(ct domain.CompiledTemplate, track *domain.TrackMetadata, maxLen int) (string, error) {
	tmpl, ok := ct.(*compiled)
	if !ok || tmpl == nil {
		return "", fmt.Errorf("%w: foreign template handle %T", domain.ErrEvaluate, ct)
	}
	if tmpl.released {
		return "", fmt.Errorf("%w: template %q was released", domain.ErrEvaluate, tmpl.src)
	}
	if track == nil {
		return "", fmt.Errorf("%w: no track", domain.ErrEvaluate)
	}

	var b strings.Builder
	for _, seg := range tmpl.segments {
		if seg.code == 0 {
			b.WriteString(seg.literal)
		} else {
			b.WriteString(field(seg.code, track))
		}
		if maxLen > 0 && utf8.RuneCountInString(b.String()) >= maxLen {
			break
		}
	}
	return cut(b.String(), maxLen), nil
}

// Release disposes ct. Releasing twice is logged and ignored.
func (c *Compiler) Release(ct domain.CompiledTemplate) {
	tmpl, ok := ct.(*compiled)
	if !ok || tmpl == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tmpl.released {
		c.logger.Warn("Template released twice", zap.String("template", tmpl.src))
		return
	}
	tmpl.released = true
	c.live--
}

// Live returns the number of compiled templates not yet released
func (c *Compiler) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func field(code byte, t *domain.TrackMetadata) string {
	switch code {
	case 'a':
		return t.Artist
	case 't':
		return t.Title
	case 'b':
		return t.Album
	case 'B':
		if t.AlbumArtist != "" {
			return t.AlbumArtist
		}
		return t.Artist
	case 'n':
		if t.TrackNumber <= 0 {
			return ""
		}
		return fmt.Sprintf("%02d", t.TrackNumber)
	case 'y':
		return t.Year
	case 'g':
		return t.Genre
	case 'c':
		return t.Comment
	case 'f':
		return fileName(t.URL)
	case 'F':
		return t.URL
	case 'e':
		return clock(t.Elapsed)
	case 'l':
		if t.Length <= 0 {
			return "-:--"
		}
		return clock(t.Length)
	case 's':
		return string(t.Status)
	}
	return ""
}

// clock formats d as m:ss, or h:mm:ss from one hour up
func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func fileName(location string) string {
	if location == "" {
		return ""
	}
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(location)
}

func cut(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	n := 0
	for pos := range s {
		if n == maxLen {
			return s[:pos]
		}
		n++
	}
	return s
}
