package layered

import "testing"

func boolPtr(b bool) *bool { return &b }
func intPtr(v int) *int    { return &v }

func TestNormalizeChildNamingConventions(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawNode
		want int // expected child count on the canonical node
	}{
		{
			name: "modern children field",
			raw: &RawNode{
				Type: "group",
				Name: "Page",
				Children: []*RawNode{
					{Type: "raster", Name: "Bg"},
					{Type: "text", Name: "Title"},
				},
			},
			want: 2,
		},
		{
			name: "legacy _children field",
			raw: &RawNode{
				Type: "group",
				Name: "Page",
				LegacyChildren: []*RawNode{
					{Type: "raster", Name: "Bg"},
				},
			},
			want: 1,
		},
		{
			name: "children wins over _children when both set",
			raw: &RawNode{
				Type:           "group",
				Children:       []*RawNode{{Type: "raster"}, {Type: "raster"}},
				LegacyChildren: []*RawNode{{Type: "raster"}},
			},
			want: 2,
		},
		{
			name: "empty group keeps a non-nil child list",
			raw:  &RawNode{Type: "group", Name: "Empty"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(tt.raw)
			if n.Kind != KindGroup {
				t.Fatalf("Kind = %v, want KindGroup", n.Kind)
			}
			if n.Children == nil {
				t.Fatal("group node has nil Children")
			}
			if len(n.Children) != tt.want {
				t.Errorf("len(Children) = %d, want %d", len(n.Children), tt.want)
			}
		})
	}
}

func TestNormalizeKinds(t *testing.T) {
	tests := []struct {
		typ  string
		want Kind
	}{
		{"group", KindGroup},
		{"text", KindText},
		{"raster", KindRaster},
		{"", KindRaster},
		{"shape", KindRaster}, // unrecognized types default to raster
	}

	for _, tt := range tests {
		n := Normalize(&RawNode{Type: tt.typ})
		if n.Kind != tt.want {
			t.Errorf("Normalize(type=%q).Kind = %v, want %v", tt.typ, n.Kind, tt.want)
		}
	}
}

func TestNormalizeVisibility(t *testing.T) {
	if n := Normalize(&RawNode{Type: "raster"}); !n.Visible {
		t.Error("visibility should default to true when unset")
	}
	if n := Normalize(&RawNode{Type: "raster", Visible: boolPtr(false)}); n.Visible {
		t.Error("explicit visible=false not honored")
	}
}

func TestNormalizeMaskOriginFallback(t *testing.T) {
	raw := &RawNode{
		Type: "raster",
		Left: 40, Top: 50, Width: 100, Height: 100,
		Mask: &RawMask{Width: 60, Height: 70},
	}
	n := Normalize(raw)
	if n.Mask == nil {
		t.Fatal("mask dropped by adapter")
	}
	if n.Mask.X != 40 || n.Mask.Y != 50 {
		t.Errorf("mask origin = (%d, %d), want node origin (40, 50)", n.Mask.X, n.Mask.Y)
	}
	if n.Mask.Width != 60 || n.Mask.Height != 70 {
		t.Errorf("mask size = %dx%d, want 60x70", n.Mask.Width, n.Mask.Height)
	}

	raw.Mask.Left = intPtr(10)
	raw.Mask.Top = intPtr(20)
	n = Normalize(raw)
	if n.Mask.X != 10 || n.Mask.Y != 20 {
		t.Errorf("explicit mask origin = (%d, %d), want (10, 20)", n.Mask.X, n.Mask.Y)
	}
}

func TestNormalizeTextRepresentations(t *testing.T) {
	nested := Normalize(&RawNode{
		Type: "text",
		Name: "Title",
		Text: &RawText{
			Content:   "Hello",
			Font:      "Helvetica",
			Size:      24,
			Color:     []float64{255, 128, 0, 0.5},
			Alignment: "center",
			Transform: []float64{1, 0, 0, 1, 150, 80},
		},
	})
	if nested.Text == nil {
		t.Fatal("nested text representation dropped")
	}
	if nested.Text.Content != "Hello" || nested.Text.Font != "Helvetica" {
		t.Errorf("nested text = %+v", nested.Text)
	}
	if nested.Text.Color != "rgba(255, 128, 0, 0.5)" {
		t.Errorf("Color = %q, want rgba(255, 128, 0, 0.5)", nested.Text.Color)
	}

	flat := Normalize(&RawNode{
		Type:        "text",
		TextContent: "Legacy",
		FontName:    "Arial",
		FontSize:    12,
		TextColor:   "rgba(0, 0, 0, 1)",
		Alignment:   "left",
	})
	if flat.Text == nil {
		t.Fatal("flat text representation dropped")
	}
	if flat.Text.Content != "Legacy" || flat.Text.Font != "Arial" || flat.Text.Size != 12 {
		t.Errorf("flat text = %+v", flat.Text)
	}
	if flat.Text.Color != "rgba(0, 0, 0, 1)" {
		t.Errorf("Color = %q, want passthrough string", flat.Text.Color)
	}
}
