// Package flatten implements the document-tree flattening at the heart
// of the converter: an iterative depth-first traversal that turns the
// canonical layered document into a JSON-serializable layout tree with
// parent-relative coordinates, delegating rectangle math to
// pkg/geometry, file naming to the NameAllocator and raster output to an
// Exporter collaborator.
//
// The traversal maintains its own explicit stack of frames instead of
// recursing, so arbitrarily deep group hierarchies cannot overflow the
// call stack. Frames are owned exclusively by the stack and never
// outlive their pop.
package flatten

import (
	"github.com/hellenic-development/psd-converter/pkg/geometry"
	"github.com/hellenic-development/psd-converter/pkg/layered"
)

// LayoutNode is one entry in the produced layout tree. X and Y are
// relative to the immediate parent group's resolved origin; the root's
// frame of reference is the document origin. Groups always carry a
// children array (possibly empty), other types omit it.
type LayoutNode struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	X        int               `json:"x"`
	Y        int               `json:"y"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Children []*LayoutNode     `json:"children,omitzero"`
	FileName string            `json:"fileName,omitempty"`
	Text     *layered.TextInfo `json:"text,omitempty"`
}

// ExportResult reports what an Exporter actually wrote and where the
// written image is placed, in absolute document coordinates. Cropping
// can change both size and position, so the flattener overwrites the
// layer's geometry with this value.
type ExportResult struct {
	Width  int
	Height int
	X      int
	Y      int
}

// Exporter writes one raster layer's pixels to disk. dir is the
// slash-joined directory path below the image root ("" for the root
// itself), name the allocated file name. Implemented by export.Pipeline.
type Exporter interface {
	Export(src layered.PixelSource, bounds geometry.Rect, dir, name string) (ExportResult, error)
}

// Logger receives per-layer warnings. A nil Logger means silent
// operation.
type Logger interface {
	Warnf(format string, args ...any)
}

// Config controls one flattening run.
type Config struct {
	// Exporter writes layer images; nil disables image export entirely.
	Exporter Exporter

	// Flatten switches file naming to path-derived unique names in a
	// single directory instead of mirrored per-group subdirectories.
	Flatten bool

	Logger Logger
}

// frame is one entry of the traversal stack: the sibling list being
// walked, the cursor into it, the accumulated group path, the output
// list children are appended to, and the parent's absolute origin
// against which this frame's children compute their relative
// coordinates.
type frame struct {
	siblings []*layered.Node
	index    int
	path     string
	out      *[]*LayoutNode
	originX  int
	originY  int
}

// Flatten walks the document tree and returns the layout tree rooted at
// the document's top-level layers.
//
// Invisible nodes are skipped together with their descendants. Per-layer
// export failures are logged and isolated: the layer still appears in
// the layout tree, without a file name, and the traversal continues.
func Flatten(root *layered.Node, cfg Config) []*LayoutNode {
	out := make([]*LayoutNode, 0, len(root.Children))
	alloc := NewNameAllocator(cfg.Flatten)

	stack := []*frame{{siblings: root.Children, out: &out}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if f.index >= len(f.siblings) {
			stack = stack[:len(stack)-1]
			continue
		}

		i := f.index
		f.index++

		n := f.siblings[i]
		if !n.Visible {
			continue
		}

		bounds := layered.EffectiveBounds(f.siblings, i)
		node := &LayoutNode{
			Name:   n.Name,
			Type:   n.Kind.String(),
			X:      bounds.X - f.originX,
			Y:      bounds.Y - f.originY,
			Width:  bounds.Width,
			Height: bounds.Height,
		}
		*f.out = append(*f.out, node)

		switch n.Kind {
		case layered.KindGroup:
			node.Children = []*LayoutNode{}
			stack = append(stack, &frame{
				siblings: n.Children,
				path:     joinPath(f.path, n.Name),
				out:      &node.Children,
				originX:  bounds.X,
				originY:  bounds.Y,
			})

		case layered.KindText:
			node.Text = n.Text

		case layered.KindRaster:
			if cfg.Exporter == nil {
				break
			}
			name := alloc.Allocate(n.Name, f.path)
			dir := f.path
			if cfg.Flatten {
				dir = ""
			}
			res, err := cfg.Exporter.Export(n.Pixels, bounds, dir, name)
			if err != nil {
				warnf(cfg.Logger, "export layer %q: %v", n.Name, err)
				break
			}
			node.FileName = name
			// The exporter reports absolute placement; convert back into
			// this frame's parent-relative coordinate space.
			node.X = res.X - f.originX
			node.Y = res.Y - f.originY
			node.Width = res.Width
			node.Height = res.Height
		}
	}

	return out
}

// Count returns the number of group, image and text entries in a layout
// tree, descendants included.
func Count(nodes []*LayoutNode) (groups, images, texts int) {
	for _, n := range nodes {
		switch n.Type {
		case "group":
			groups++
			g, i, t := Count(n.Children)
			groups += g
			images += i
			texts += t
		case "text":
			texts++
		default:
			images++
		}
	}
	return groups, images, texts
}

func joinPath(parent, name string) string {
	name = sanitize(name)
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func warnf(l Logger, format string, args ...any) {
	if l != nil {
		l.Warnf(format, args...)
	}
}
