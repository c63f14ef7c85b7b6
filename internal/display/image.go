package display

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/playstatus/internal/domain"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var _ domain.Display = (*ImageDisplay)(nil)

const (
	// DefaultImageWidth is the canvas width in pixels when none is configured
	DefaultImageWidth = 300
	statusFilename    = "status.png"
	// Text starts at this offset from the top-left corner
	marginX = 6
	marginY = 6
)

var face = basicfont.Face7x13

// ImageDisplay paints frames into a PNG file, rewriting it when the frame changes
type ImageDisplay struct {
	repaintQueue
	logger *zap.Logger
	dir    string
	width  int

	last []domain.Line
}

// NewImageDisplay creates a display writing status.png into dir
func NewImageDisplay(logger *zap.Logger, dir string, width int) *ImageDisplay {
	if width <= 0 {
		width = DefaultImageWidth
	}
	return &ImageDisplay{
		repaintQueue: newRepaintQueue(),
		logger:       logger,
		dir:          dir,
		width:        width,
	}
}

// Path returns the file the display writes
func (d *ImageDisplay) Path() string {
	return filepath.Join(d.dir, statusFilename)
}

// Run paints until ctx is cancelled
func (d *ImageDisplay) Run(ctx context.Context, src domain.FrameSource) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	d.logger.Info("Image display running", zap.String("path", d.Path()), zap.Int("width", d.width))

	return d.run(ctx, src, func(frame []domain.Line) error {
		if slices.Equal(frame, d.last) {
			return nil
		}
		d.last = slices.Clone(frame)
		// A failed write is retried on the next change
		if err := d.write(frame); err != nil {
			d.logger.Warn("Failed to write status image", zap.Error(err))
			d.last = nil
		}
		return nil
	})
}

// Draw paints frame on a white canvas. Each line advances by its font size,
// never less than the glyph height.
func (d *ImageDisplay) Draw(frame []domain.Line) *image.NRGBA {
	height := marginY * 2
	for _, line := range frame {
		height += lineHeight(line.Style.Font)
	}
	canvas := imaging.New(d.width, height, color.White)

	cols := (d.width - marginX) / face.Advance
	y := marginY
	for _, line := range frame {
		h := lineHeight(line.Style.Font)
		text := runewidth.Truncate(line.Text, cols, "...")
		drawer := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(toColor(line.Style.Color)),
			Face: face,
		}
		baseline := y + h - face.Descent
		drawer.Dot = fixed.P(marginX, baseline)
		drawer.DrawString(text)
		if line.Style.Font.Weight >= domain.WeightSemiBold {
			// Bitmap faces have no bold variant: overstrike one pixel to the right
			drawer.Dot = fixed.P(marginX+1, baseline)
			drawer.DrawString(text)
		}
		y += h
	}
	return canvas
}

func (d *ImageDisplay) write(frame []domain.Line) error {
	img := d.Draw(frame)

	tmp, err := os.CreateTemp(d.dir, ".status-*.png")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.Path()); err != nil {
		return fmt.Errorf("replace image: %w", err)
	}

	d.logger.Debug("Status image written", zap.String("path", d.Path()), zap.Int("lines", len(frame)))
	return nil
}

// lineHeight converts a point size to pixels at 96 dpi
func lineHeight(f domain.FontStyle) int {
	px := int(f.Size*96/72 + 0.5)
	return max(px, face.Height)
}

func toColor(c domain.RGB) color.NRGBA {
	return color.NRGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: 0xff}
}
