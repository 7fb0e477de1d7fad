package flatten

import "testing"

func TestAllocateNonFlattenMode(t *testing.T) {
	a := NewNameAllocator(false)

	if got := a.Allocate("Bg", "Page"); got != "Bg.png" {
		t.Errorf("Allocate() = %q, want %q", got, "Bg.png")
	}
	// No uniqueness enforcement: the directory tree disambiguates.
	if got := a.Allocate("Bg", "Other"); got != "Bg.png" {
		t.Errorf("repeat Allocate() = %q, want %q", got, "Bg.png")
	}
	// An existing extension is stripped before the fixed one is applied.
	if got := a.Allocate("photo.jpg", ""); got != "photo.png" {
		t.Errorf("Allocate(photo.jpg) = %q, want %q", got, "photo.png")
	}
}

func TestAllocateFlattenModeUniqueness(t *testing.T) {
	a := NewNameAllocator(true)

	want := []string{"Bg.png", "Bg_1.png", "Bg_2.png", "Bg_3.png"}
	for i, w := range want {
		if got := a.Allocate("Bg", ""); got != w {
			t.Errorf("allocation %d = %q, want %q", i, got, w)
		}
	}
}

func TestAllocateFlattenModePathFolding(t *testing.T) {
	a := NewNameAllocator(true)

	if got := a.Allocate("Bg", "Page/Header"); got != "Page_Header_Bg.png" {
		t.Errorf("Allocate() = %q, want %q", got, "Page_Header_Bg.png")
	}
	// The same layer name under the same path collides and gets a suffix.
	if got := a.Allocate("Bg", "Page/Header"); got != "Page_Header_Bg_1.png" {
		t.Errorf("Allocate() = %q, want %q", got, "Page_Header_Bg_1.png")
	}
	// A different path yields a distinct unsuffixed name.
	if got := a.Allocate("Bg", "Page/Footer"); got != "Page_Footer_Bg.png" {
		t.Errorf("Allocate() = %q, want %q", got, "Page_Footer_Bg.png")
	}
}

func TestAllocateDistinctness(t *testing.T) {
	// N allocations of colliding base names yield N distinct strings.
	a := NewNameAllocator(true)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		name := a.Allocate("asset", "dir")
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate name issued: %q", name)
		}
		seen[name] = struct{}{}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Layer 1", "Layer 1"},
		{"a/b", "a_b"},
		{`a\b`, "a_b"},
		{"", "layer"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
