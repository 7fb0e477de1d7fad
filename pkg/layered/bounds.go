package layered

import "github.com/hellenic-development/psd-converter/pkg/geometry"

// EffectiveBounds resolves the visible rectangle of siblings[i] in
// absolute document coordinates.
//
// A node with its own mask is bounded by the mask rectangle. A clipped
// node without a mask is bounded by the mask of its base layer: the
// nearest preceding sibling that is not itself clipped. The walk
// tolerates clip chains of arbitrary length; if the base layer has no
// mask, or no base layer exists, the node's own bounds apply.
//
// Only siblings are inspected. Masks on ancestor groups do not
// participate in clip resolution.
func EffectiveBounds(siblings []*Node, i int) geometry.Rect {
	n := siblings[i]

	if n.Mask != nil {
		return *n.Mask
	}

	if n.Clipped {
		for j := i - 1; j >= 0; j-- {
			base := siblings[j]
			if base.Clipped {
				continue
			}
			if base.Mask != nil {
				return *base.Mask
			}
			break
		}
	}

	return n.Bounds
}
