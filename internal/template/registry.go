package template

import (
	"fmt"
	"unicode/utf8"

	"github.com/genricoloni/playstatus/internal/domain"
	"go.uber.org/zap"
)

// DefaultMaxLen bounds a rendered line, in runes
const DefaultMaxLen = 1024

type slot struct {
	src      string
	assigned bool
	compiled domain.CompiledTemplate
	live     bool
	err      error
}

// Registry holds the raw and compiled template of every display line.
// Each slot owns at most one compiled template; replacing or clearing a slot
// releases the previous one first.
//
// Registry is not safe for concurrent use. The controller serializes access.
type Registry struct {
	logger   *zap.Logger
	compiler domain.TemplateCompiler
	maxLen   int
	slots    [domain.MaxLines]slot
}

// NewRegistry creates an empty registry backed by the given compiler
func NewRegistry(logger *zap.Logger, compiler domain.TemplateCompiler, maxLen int) *Registry {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Registry{
		logger:   logger,
		compiler: compiler,
		maxLen:   maxLen,
	}
}

// MaxLen returns the output bound applied by Render
func (r *Registry) MaxLen() int {
	return r.maxLen
}

// SetLine releases the template at i and compiles src in its place.
// On failure the slot is left without a compiled template.
func (r *Registry) SetLine(i int, src string) error {
	s := r.slot(i)
	r.release(i, s)

	s.src = src
	s.assigned = true
	s.err = nil

	ct, err := r.compiler.Compile(src)
	if err != nil {
		s.err = fmt.Errorf("line %d: %w", i, err)
		r.logger.Warn("Template failed to compile, line will render empty",
			zap.Int("line", i),
			zap.String("template", src),
			zap.Error(err))
		return s.err
	}

	s.compiled = ct
	s.live = true
	return nil
}

// Render evaluates the template at i against track. Lines without a compiled
// template and failed evaluations render as an empty string.
func (r *Registry) Render(i int, track *domain.TrackMetadata) string {
	s := r.slot(i)
	if !s.live {
		return ""
	}

	text, err := r.compiler.Evaluate(s.compiled, track, r.maxLen)
	if err != nil {
		r.logger.Debug("Template evaluation failed",
			zap.Int("line", i),
			zap.Error(err))
		return ""
	}
	return truncate(text, r.maxLen)
}

// Clear releases the template at i and forgets its source
func (r *Registry) Clear(i int) {
	s := r.slot(i)
	r.release(i, s)
	*s = slot{}
}

// ReleaseAll disposes every compiled template. Calling it again is a no-op.
func (r *Registry) ReleaseAll() {
	for i := range r.slots {
		r.Clear(i)
	}
}

// Source returns the template string last assigned to i
func (r *Registry) Source(i int) (string, bool) {
	s := r.slot(i)
	return s.src, s.assigned
}

// Compiled reports whether i holds a live compiled template
func (r *Registry) Compiled(i int) bool {
	return r.slot(i).live
}

// Err returns the compile error recorded for i, if any
func (r *Registry) Err(i int) error {
	return r.slot(i).err
}

// Live returns the number of compiled templates currently held
func (r *Registry) Live() int {
	n := 0
	for i := range r.slots {
		if r.slots[i].live {
			n++
		}
	}
	return n
}

func (r *Registry) release(i int, s *slot) {
	if !s.live {
		return
	}
	r.compiler.Release(s.compiled)
	s.compiled = nil
	s.live = false
	r.logger.Debug("Released compiled template", zap.Int("line", i))
}

func (r *Registry) slot(i int) *slot {
	if i < 0 || i >= domain.MaxLines {
		panic(fmt.Sprintf("template: line index %d out of range [0, %d)", i, domain.MaxLines))
	}
	return &r.slots[i]
}

// truncate cuts s to at most limit runes
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for pos := range s {
		if n == limit {
			return s[:pos]
		}
		n++
	}
	return s
}
