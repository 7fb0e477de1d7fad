// Package layered defines the canonical in-memory model of a layered
// document and the adapter that normalizes the raw tree produced by a
// parser collaborator (see pkg/psd) into that model.
//
// The raw external shape has grown two historical quirks that this
// package isolates from the rest of the converter: the child list may be
// named either "children" or "_children", and text metadata may appear
// either nested under a "text" object or as flat legacy fields. The
// flattener and the export pipeline only ever see the canonical Node.
package layered

import (
	"image"

	"github.com/hellenic-development/psd-converter/pkg/geometry"
)

// Kind discriminates the three node variants of a layered document.
type Kind int

const (
	// KindGroup is a container holding an ordered list of child nodes.
	KindGroup Kind = iota
	// KindRaster is a leaf layer carrying pixel data.
	KindRaster
	// KindText is a leaf layer carrying text metadata.
	KindText
)

// String returns the layout-tree type label for the kind.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindText:
		return "text"
	default:
		return "image"
	}
}

// Node is one entry in the canonical document tree. Only the fields
// relevant to its Kind are populated: Children for groups, Text for text
// layers, Pixels for raster layers.
type Node struct {
	Kind    Kind
	Name    string
	Visible bool

	// Bounds is the node's absolute rectangle in document coordinates.
	Bounds geometry.Rect

	// Mask, when non-nil, restricts the node's visible area. The origin
	// fallback for masks that omit a position has already been applied
	// by the adapter, so the rectangle is always fully resolved.
	Mask *geometry.Rect

	// Clipped marks the node as masked by the nearest prior unclipped
	// sibling; see EffectiveBounds.
	Clipped bool

	Children []*Node
	Text     *TextInfo
	Pixels   PixelSource
}

// TextInfo carries the metadata extracted from a text layer. It is
// serialized verbatim into the layout tree.
type TextInfo struct {
	Content string  `json:"content"`
	Font    string  `json:"font,omitempty"`
	Size    float64 `json:"size,omitempty"`
	// Color is a CSS-style color string such as "rgba(255, 0, 0, 1)".
	Color     string `json:"color,omitempty"`
	Alignment string `json:"alignment,omitempty"`
	// Transform is the layer's 2D affine transform [xx, xy, yx, yy, tx, ty].
	Transform []float64 `json:"transform,omitempty"`
}

// PixelSource is a raster layer's decoded pixel handle. Every source can
// persist its pixels unmodified; sources whose pixels are addressable in
// memory additionally implement ImageProvider and can be cropped without
// a round trip through the filesystem. Handles that only implement
// PixelSource ("smart objects") are materialized to a temporary file by
// the export pipeline and reprocessed from there.
type PixelSource interface {
	// SaveTo writes the source pixels, unresized, to path as PNG.
	SaveTo(path string) error
}

// ImageProvider is the direct-crop capability of a pixel source.
type ImageProvider interface {
	PixelSource
	// Image returns the decoded pixels. The returned image's bounds
	// reflect the physical buffer, which may differ from the layer's
	// declared bounds.
	Image() (image.Image, error)
}

// Document is a parsed layered document: the canonical node tree plus
// document-level metadata.
type Document struct {
	Name   string
	Width  int
	Height int

	// Root is the document root group; its children are the top-level
	// layers in document order.
	Root *Node

	// Merged is the flattened composite preview when the parser provides
	// one, nil otherwise.
	Merged image.Image
}
