// Package display paints rendered frames onto an output surface.
package display

import (
	"context"

	"github.com/genricoloni/playstatus/internal/domain"
)

// EllipsisTail replaces the end of lines too long for the surface
const EllipsisTail = "…"

// repaintQueue coalesces repaint requests into at most one pending paint
type repaintQueue struct {
	ch chan struct{}
}

func newRepaintQueue() repaintQueue {
	return repaintQueue{ch: make(chan struct{}, 1)}
}

// RequestRepaint never blocks. A request made while one is pending is dropped.
func (q repaintQueue) RequestRepaint() {
	select {
	case q.ch <- struct{}{}:
	default:
	}
}

// run calls paint with a fresh frame for every pending request until ctx is done
func (q repaintQueue) run(ctx context.Context, src domain.FrameSource, paint func([]domain.Line) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-q.ch:
			if err := paint(src.Frame()); err != nil {
				return err
			}
		}
	}
}
