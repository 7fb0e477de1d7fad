// Package geometry provides the rectangle math used by the layer
// flattener and the image export pipeline: intersection, scale-to-fit
// and clamping in the document coordinate space. The package is pure,
// it performs no I/O.
//
// Coordinates follow the raster convention: (0,0) is the document's
// top-left corner, X grows rightward, Y grows downward. A Rect's
// top-left corner is inclusive and its bottom-right corner exclusive.
package geometry

import "image"

// Rect is an axis-aligned rectangle positioned by its top-left corner.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge coordinate.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge coordinate.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// ImageRect converts r to the standard library representation, which
// positions rectangles by min and max points instead of origin and size.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// FromImageRect converts a standard library rectangle to a Rect.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Intersect returns the overlap of a and b. The second return value is
// false when the rectangles do not overlap (sharing only an edge counts
// as no overlap); the returned Rect is the zero value in that case.
func Intersect(a, b Rect) (Rect, bool) {
	left := max(a.X, b.X)
	top := max(a.Y, b.Y)
	right := min(a.Right(), b.Right())
	bottom := min(a.Bottom(), b.Bottom())

	if left >= right || top >= bottom {
		return Rect{}, false
	}
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}

// ScaleToFit returns width and height scaled down by the same factor so
// that both fit within maxWidth and maxHeight. A max of zero (or less)
// leaves that axis unconstrained; if neither axis is constrained, or the
// size already fits, the input is returned unchanged. ScaleToFit never
// upscales. Results are floored to integers.
func ScaleToFit(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}

	ratio := 1.0
	if maxWidth > 0 {
		if r := float64(maxWidth) / float64(width); r < ratio {
			ratio = r
		}
	}
	if maxHeight > 0 {
		if r := float64(maxHeight) / float64(height); r < ratio {
			ratio = r
		}
	}
	if ratio >= 1 {
		return width, height
	}
	return int(float64(width) * ratio), int(float64(height) * ratio)
}

// Clamp limits v to the range [lo, hi]. It assumes lo <= hi.
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
