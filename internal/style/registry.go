package style

import (
	"fmt"

	"github.com/genricoloni/playstatus/internal/domain"
)

type entry struct {
	descriptor string
	style      domain.Style
}

// Registry holds the font and color of every display line. Entries are
// replaced wholesale; a parsed FontStyle is never mutated in place.
//
// Registry is not safe for concurrent use. The controller serializes access.
type Registry struct {
	entries [domain.MaxLines]entry
}

// NewRegistry returns a registry where every line uses the default font in black
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.entries {
		r.entries[i] = entry{style: domain.Style{Font: ParseFont(""), Color: domain.Black}}
	}
	return r
}

// SetLine replaces the style of line i
func (r *Registry) SetLine(i int, descriptor string, color domain.RGB) {
	checkIndex(i)
	r.entries[i] = entry{
		descriptor: descriptor,
		style:      domain.Style{Font: ParseFont(descriptor), Color: color},
	}
}

// Get returns the style of line i
func (r *Registry) Get(i int) domain.Style {
	checkIndex(i)
	return r.entries[i].style
}

// Descriptor returns the font descriptor line i was configured with
func (r *Registry) Descriptor(i int) string {
	checkIndex(i)
	return r.entries[i].descriptor
}

// IdleStyle is the style of the "stopped" line: black text in the given font
func IdleStyle(font domain.FontStyle) domain.Style {
	return domain.Style{Font: font, Color: domain.Black}
}

func checkIndex(i int) {
	if i < 0 || i >= domain.MaxLines {
		panic(fmt.Sprintf("style: line index %d out of range [0, %d)", i, domain.MaxLines))
	}
}
