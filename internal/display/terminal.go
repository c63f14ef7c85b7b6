package display

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/genricoloni/playstatus/internal/domain"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

var _ domain.Display = (*TerminalDisplay)(nil)

// DefaultTerminalWidth is the width in columns when none is configured
const DefaultTerminalWidth = 60

// TerminalDisplay writes each changed frame to a terminal, one styled row per line
type TerminalDisplay struct {
	repaintQueue
	logger   *zap.Logger
	out      io.Writer
	renderer *lipgloss.Renderer
	width    int

	last []domain.Line
}

// NewTerminalDisplay creates a display writing to out, cutting rows at width columns
func NewTerminalDisplay(logger *zap.Logger, out io.Writer, width int) *TerminalDisplay {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	return &TerminalDisplay{
		repaintQueue: newRepaintQueue(),
		logger:       logger,
		out:          out,
		renderer:     lipgloss.NewRenderer(out),
		width:        width,
	}
}

// Run paints until ctx is cancelled
func (d *TerminalDisplay) Run(ctx context.Context, src domain.FrameSource) error {
	d.logger.Info("Terminal display running", zap.Int("width", d.width))
	return d.run(ctx, src, d.paint)
}

func (d *TerminalDisplay) paint(frame []domain.Line) error {
	if slices.Equal(frame, d.last) {
		return nil
	}
	d.last = slices.Clone(frame)

	if _, err := io.WriteString(d.out, d.Format(frame)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Format renders frame as terminal text followed by a separator row
func (d *TerminalDisplay) Format(frame []domain.Line) string {
	var b strings.Builder
	for _, line := range frame {
		text := runewidth.Truncate(line.Text, d.width, EllipsisTail)
		b.WriteString(d.lineStyle(line.Style).Render(text))
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("─", d.width))
	b.WriteByte('\n')
	return b.String()
}

func (d *TerminalDisplay) lineStyle(s domain.Style) lipgloss.Style {
	return d.renderer.NewStyle().
		Foreground(lipgloss.Color(s.Color.Hex())).
		Bold(s.Font.Weight >= domain.WeightSemiBold).
		Italic(s.Font.Italic)
}
