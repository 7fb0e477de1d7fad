// Package export implements the image export pipeline: given a raster
// layer's pixel handle and its absolute bounds, it decides whether to
// write the pixels through unchanged, crop them to the visible portion
// of a maximum canvas, or emit a transparent placeholder, and reports
// the geometry that was actually written.
//
// Pixel handles that cannot be cropped in memory (smart objects) are
// materialized to a uniquely named temporary file and reprocessed from
// there; the temporary file is removed best-effort afterwards.
package export

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/hellenic-development/psd-converter/pkg/flatten"
	"github.com/hellenic-development/psd-converter/pkg/geometry"
	"github.com/hellenic-development/psd-converter/pkg/layered"
)

// unbounded stands in for an axis with no configured maximum.
const unbounded = 1 << 30

// Logger receives non-fatal pipeline warnings. A nil Logger means silent
// operation.
type Logger interface {
	Warnf(format string, args ...any)
}

// Pipeline writes layer images below Dir. A zero MaxWidth/MaxHeight
// leaves that axis unconstrained; when neither is set, sources are
// written through unresized.
type Pipeline struct {
	Dir       string
	MaxWidth  int
	MaxHeight int
	Logger    Logger
}

// Export implements flatten.Exporter. The destination directory is
// created before any write is attempted. On success the returned result
// holds the written image's size and its clamped absolute position.
func (p *Pipeline) Export(src layered.PixelSource, bounds geometry.Rect, dir, name string) (flatten.ExportResult, error) {
	if src == nil {
		return flatten.ExportResult{}, errors.New("layer has no pixel data")
	}

	destDir := filepath.Join(p.Dir, filepath.FromSlash(dir))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return flatten.ExportResult{}, fmt.Errorf("create output directory %q: %w", destDir, err)
	}
	destPath := filepath.Join(destDir, name)

	if p.MaxWidth <= 0 && p.MaxHeight <= 0 {
		if err := src.SaveTo(destPath); err != nil {
			return flatten.ExportResult{}, fmt.Errorf("save layer image: %w", err)
		}
		return flatten.ExportResult{Width: bounds.Width, Height: bounds.Height, X: bounds.X, Y: bounds.Y}, nil
	}

	visible, ok := geometry.Intersect(bounds, p.canvas())
	if !ok {
		return p.writePlaceholder(destPath, bounds)
	}

	img, cleanup, err := p.sourceImage(src)
	if err != nil {
		// The crop path is unavailable; fall back to the original,
		// unresized pixels and report the uncropped bounds.
		p.warnf("cannot crop %s: %v, saving unresized", name, err)
		if saveErr := src.SaveTo(destPath); saveErr != nil {
			return flatten.ExportResult{}, fmt.Errorf("save layer image: %w", saveErr)
		}
		return flatten.ExportResult{Width: bounds.Width, Height: bounds.Height, X: bounds.X, Y: bounds.Y}, nil
	}
	defer cleanup()

	// Translate the visible region into source-local coordinates and
	// clamp it to the physical pixel buffer.
	crop := clampToBuffer(visible.Translate(-bounds.X, -bounds.Y), img.Bounds())
	if crop.Empty() {
		return p.writePlaceholder(destPath, bounds)
	}

	out := imaging.Crop(img, crop.ImageRect())
	if err := imaging.Save(out, destPath); err != nil {
		return flatten.ExportResult{}, fmt.Errorf("save cropped image: %w", err)
	}

	return flatten.ExportResult{
		Width:  crop.Width,
		Height: crop.Height,
		X:      max(0, bounds.X),
		Y:      max(0, bounds.Y),
	}, nil
}

// canvas is the visible document area implied by the configured maxima.
func (p *Pipeline) canvas() geometry.Rect {
	w, h := p.MaxWidth, p.MaxHeight
	if w <= 0 {
		w = unbounded
	}
	if h <= 0 {
		h = unbounded
	}
	return geometry.Rect{Width: w, Height: h}
}

// writePlaceholder emits the 1x1 fully transparent image used for layers
// with no visible pixels inside the canvas, positioned at the nearest
// in-bounds edge.
func (p *Pipeline) writePlaceholder(destPath string, bounds geometry.Rect) (flatten.ExportResult, error) {
	placeholder := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	if err := imaging.Save(placeholder, destPath); err != nil {
		return flatten.ExportResult{}, fmt.Errorf("save placeholder image: %w", err)
	}
	return flatten.ExportResult{
		Width:  1,
		Height: 1,
		X:      clampAxis(bounds.X, p.MaxWidth),
		Y:      clampAxis(bounds.Y, p.MaxHeight),
	}, nil
}

// sourceImage returns a croppable image for src. Smart-object handles
// are materialized through their save capability to a uniquely named
// temporary file first; the returned cleanup removes it (best-effort, a
// deletion failure is logged, not fatal).
func (p *Pipeline) sourceImage(src layered.PixelSource) (image.Image, func(), error) {
	if provider, ok := src.(layered.ImageProvider); ok {
		img, err := provider.Image()
		if err != nil {
			return nil, nil, fmt.Errorf("decode layer pixels: %w", err)
		}
		// Crop rectangles are source-local; rebase buffers whose bounds
		// carry a document-space offset.
		if b := img.Bounds(); b.Min != (image.Point{}) {
			img = imaging.Clone(img)
		}
		return img, func() {}, nil
	}

	tmp := filepath.Join(os.TempDir(), "psd-converter-"+uuid.NewString()+".png")
	if err := src.SaveTo(tmp); err != nil {
		return nil, nil, fmt.Errorf("materialize smart object: %w", err)
	}
	cleanup := func() {
		if err := os.Remove(tmp); err != nil {
			p.warnf("remove temporary file %s: %v", tmp, err)
		}
	}

	img, err := imaging.Open(tmp)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("reopen smart object: %w", err)
	}
	return img, cleanup, nil
}

// clampToBuffer limits a source-local crop rectangle to the physical
// buffer dimensions, which may differ from the layer's declared bounds.
func clampToBuffer(crop geometry.Rect, buf image.Rectangle) geometry.Rect {
	w, h := buf.Dx(), buf.Dy()
	right := geometry.Clamp(crop.Right(), 0, w)
	bottom := geometry.Clamp(crop.Bottom(), 0, h)
	crop.X = geometry.Clamp(crop.X, 0, w)
	crop.Y = geometry.Clamp(crop.Y, 0, h)
	crop.Width = right - crop.X
	crop.Height = bottom - crop.Y
	return crop
}

// clampAxis clamps a placeholder coordinate into [0, max-1]; an
// unconstrained axis only clamps the negative side.
func clampAxis(v, max int) int {
	if v < 0 {
		return 0
	}
	if max > 0 && v > max-1 {
		return max - 1
	}
	return v
}

func (p *Pipeline) warnf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Warnf(format, args...)
	}
}
