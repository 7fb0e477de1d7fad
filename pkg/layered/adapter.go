package layered

import (
	"fmt"
	"math"

	"github.com/hellenic-development/psd-converter/pkg/geometry"
)

// RawNode is the external tree shape handed over by a parser
// collaborator. It tolerates both historical field-naming conventions
// for the child list ("children" and "_children") and both text-layer
// representations (a nested text object, or flat legacy fields).
// Unknown type strings are treated as raster layers.
type RawNode struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Visible *bool  `json:"visible,omitempty"` // nil means visible
	Left    int    `json:"left"`
	Top     int    `json:"top"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`

	Mask    *RawMask `json:"mask,omitempty"`
	Clipped bool     `json:"clipped,omitempty"`

	Children       []*RawNode `json:"children,omitempty"`
	LegacyChildren []*RawNode `json:"_children,omitempty"`

	Text *RawText `json:"text,omitempty"`

	// Flat legacy text fields, superseded by Text.
	TextContent string  `json:"textContent,omitempty"`
	FontName    string  `json:"fontName,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	TextColor   string  `json:"textColor,omitempty"`
	Alignment   string  `json:"alignment,omitempty"`

	// Src references the layer's source image file, relative to the
	// document, for pre-parsed JSON trees.
	Src string `json:"src,omitempty"`

	// Pixels is the decoded pixel handle attached by the parser. Never
	// serialized.
	Pixels PixelSource `json:"-"`
}

// RawMask is a mask rectangle whose position may be omitted; an absent
// Left/Top falls back to the owning node's own position.
type RawMask struct {
	Left   *int `json:"left,omitempty"`
	Top    *int `json:"top,omitempty"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
}

// RawText is the nested text-layer representation.
type RawText struct {
	Content string  `json:"content"`
	Font    string  `json:"font,omitempty"`
	Size    float64 `json:"size,omitempty"`
	// Color is an RGBA tuple: red, green and blue in 0-255, alpha in 0-1.
	Color     []float64 `json:"color,omitempty"`
	Alignment string    `json:"alignment,omitempty"`
	Transform []float64 `json:"transform,omitempty"`
}

// ChildNodes returns the raw node's child list regardless of which
// naming convention the producer used.
func (r *RawNode) ChildNodes() []*RawNode {
	if r.Children != nil {
		return r.Children
	}
	return r.LegacyChildren
}

// Normalize converts a raw external tree into the canonical Node shape.
// Nodes with an unrecognized type become raster layers; visibility
// defaults to true; mask rectangles missing a position inherit the
// node's own left/top.
func Normalize(raw *RawNode) *Node {
	n := &Node{
		Name:    raw.Name,
		Visible: raw.Visible == nil || *raw.Visible,
		Bounds: geometry.Rect{
			X:      raw.Left,
			Y:      raw.Top,
			Width:  raw.Width,
			Height: raw.Height,
		},
		Clipped: raw.Clipped,
	}

	if raw.Mask != nil {
		mask := geometry.Rect{
			X:      raw.Left,
			Y:      raw.Top,
			Width:  raw.Mask.Width,
			Height: raw.Mask.Height,
		}
		if raw.Mask.Left != nil {
			mask.X = *raw.Mask.Left
		}
		if raw.Mask.Top != nil {
			mask.Y = *raw.Mask.Top
		}
		n.Mask = &mask
	}

	switch raw.Type {
	case "group":
		n.Kind = KindGroup
		children := raw.ChildNodes()
		n.Children = make([]*Node, 0, len(children))
		for _, child := range children {
			n.Children = append(n.Children, Normalize(child))
		}
	case "text":
		n.Kind = KindText
		n.Text = textOf(raw)
	default:
		n.Kind = KindRaster
		n.Pixels = raw.Pixels
	}

	return n
}

// textOf builds the canonical text metadata from whichever of the two
// representations the raw node carries.
func textOf(raw *RawNode) *TextInfo {
	if raw.Text != nil {
		return &TextInfo{
			Content:   raw.Text.Content,
			Font:      raw.Text.Font,
			Size:      raw.Text.Size,
			Color:     colorToCSS(raw.Text.Color),
			Alignment: raw.Text.Alignment,
			Transform: raw.Text.Transform,
		}
	}
	return &TextInfo{
		Content:   raw.TextContent,
		Font:      raw.FontName,
		Size:      raw.FontSize,
		Color:     raw.TextColor,
		Alignment: raw.Alignment,
	}
}

// colorToCSS formats an RGBA tuple as a CSS-style rgba() string.
// Tuples shorter than three components yield an empty string; a missing
// alpha defaults to fully opaque.
func colorToCSS(c []float64) string {
	if len(c) < 3 {
		return ""
	}
	alpha := 1.0
	if len(c) > 3 {
		alpha = c[3]
	}
	r := int(math.Round(c[0]))
	g := int(math.Round(c[1]))
	b := int(math.Round(c[2]))
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, g, b, alpha)
}
