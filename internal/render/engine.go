package render

import (
	"github.com/genricoloni/playstatus/internal/domain"
	"github.com/genricoloni/playstatus/internal/style"
	"github.com/genricoloni/playstatus/internal/template"
)

// IdleText is painted on the first line when nothing is playing
const IdleText = "-- / -- (stopped)"

// Engine turns a snapshot into the ordered lines to paint
type Engine struct {
	templates *template.Registry
	styles    *style.Registry
}

// NewEngine creates an engine reading from the given registries
func NewEngine(templates *template.Registry, styles *style.Registry) *Engine {
	return &Engine{templates: templates, styles: styles}
}

// RenderFrame returns exactly activeLines lines in index order.
//
// With an empty snapshot line 0 shows IdleText in the idle style and the
// remaining lines are blank but keep their configured style, so the layout
// does not jump when playback stops.
func (e *Engine) RenderFrame(snap domain.Snapshot, activeLines int) []domain.Line {
	if activeLines <= 0 {
		return nil
	}

	frame := make([]domain.Line, activeLines)
	if snap.IsEmpty() {
		frame[0] = domain.Line{
			Index: 0,
			Text:  IdleText,
			Style: style.IdleStyle(e.styles.Get(0).Font),
		}
		for i := 1; i < activeLines; i++ {
			frame[i] = domain.Line{Index: i, Style: e.styles.Get(i)}
		}
		return frame
	}

	track := snap.Track()
	for i := 0; i < activeLines; i++ {
		frame[i] = domain.Line{
			Index: i,
			Text:  e.templates.Render(i, track),
			Style: e.styles.Get(i),
		}
	}
	return frame
}
