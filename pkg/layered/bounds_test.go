package layered

import (
	"testing"

	"github.com/hellenic-development/psd-converter/pkg/geometry"
)

func TestEffectiveBounds(t *testing.T) {
	own := geometry.Rect{X: 100, Y: 100, Width: 50, Height: 50}
	maskRect := geometry.Rect{X: 10, Y: 20, Width: 30, Height: 40}

	t.Run("own mask wins", func(t *testing.T) {
		siblings := []*Node{{Bounds: own, Mask: &maskRect}}
		if got := EffectiveBounds(siblings, 0); got != maskRect {
			t.Errorf("EffectiveBounds() = %+v, want mask %+v", got, maskRect)
		}
	})

	t.Run("unmasked unclipped node keeps its bounds", func(t *testing.T) {
		siblings := []*Node{{Bounds: own}}
		if got := EffectiveBounds(siblings, 0); got != own {
			t.Errorf("EffectiveBounds() = %+v, want %+v", got, own)
		}
	})

	t.Run("clip chain three siblings deep", func(t *testing.T) {
		// Only the base layer owns a mask; the two layers between it and
		// the node under test are themselves clipped.
		siblings := []*Node{
			{Name: "base", Mask: &maskRect},
			{Name: "clip1", Clipped: true},
			{Name: "clip2", Clipped: true},
			{Name: "probe", Clipped: true, Bounds: own},
		}
		if got := EffectiveBounds(siblings, 3); got != maskRect {
			t.Errorf("EffectiveBounds() = %+v, want base mask %+v", got, maskRect)
		}
	})

	t.Run("base layer without mask falls back to own bounds", func(t *testing.T) {
		siblings := []*Node{
			{Name: "base"},
			{Name: "probe", Clipped: true, Bounds: own},
		}
		if got := EffectiveBounds(siblings, 1); got != own {
			t.Errorf("EffectiveBounds() = %+v, want own bounds %+v", got, own)
		}
	})

	t.Run("clipped first sibling has no base", func(t *testing.T) {
		siblings := []*Node{{Name: "probe", Clipped: true, Bounds: own}}
		if got := EffectiveBounds(siblings, 0); got != own {
			t.Errorf("EffectiveBounds() = %+v, want own bounds %+v", got, own)
		}
	})
}
