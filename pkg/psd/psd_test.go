package psd

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/hellenic-development/psd-converter/pkg/layered"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseJSONTreeObjectRoot(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "design.json")
	writeFile(t, doc, `{
		"type": "group",
		"name": "design",
		"width": 800,
		"height": 600,
		"children": [
			{"type": "group", "name": "Page", "left": 100, "top": 50, "width": 800, "height": 600, "children": [
				{"type": "raster", "name": "Bg", "left": 100, "top": 50, "width": 800, "height": 600, "src": "bg.png"},
				{"type": "text", "name": "Title", "left": 150, "top": 80, "width": 300, "height": 40,
				 "text": {"content": "Hello"}}
			]}
		]
	}`)

	got, err := Parse(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 800 || got.Height != 600 {
		t.Errorf("document size = %dx%d, want 800x600", got.Width, got.Height)
	}
	if len(got.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(got.Root.Children))
	}

	page := got.Root.Children[0]
	if page.Kind != layered.KindGroup || len(page.Children) != 2 {
		t.Fatalf("Page = kind %v with %d children", page.Kind, len(page.Children))
	}

	bg := page.Children[0]
	if bg.Kind != layered.KindRaster {
		t.Errorf("Bg kind = %v, want raster", bg.Kind)
	}
	if bg.Pixels == nil {
		t.Error("raster node with src has no pixel source bound")
	}

	title := page.Children[1]
	if title.Kind != layered.KindText || title.Text == nil || title.Text.Content != "Hello" {
		t.Errorf("Title = %+v", title)
	}
}

func TestParseJSONTreeLegacyArrayRoot(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "legacy.json")
	writeFile(t, doc, `[
		{"type": "group", "name": "Page", "_children": [
			{"type": "raster", "name": "Bg", "width": 10, "height": 10}
		]}
	]`)

	got, err := Parse(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "legacy" {
		t.Errorf("document name = %q, want %q", got.Name, "legacy")
	}
	if len(got.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(got.Root.Children))
	}
	page := got.Root.Children[0]
	if len(page.Children) != 1 || page.Children[0].Name != "Bg" {
		t.Errorf("legacy _children not adapted: %+v", page.Children)
	}
}

func TestParseJSONTreeInvalid(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "broken.json")
	writeFile(t, doc, `{"type": `)

	if _, err := Parse(doc); err == nil {
		t.Error("expected a parse error for malformed input")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "nope.psd")); err == nil {
		t.Error("expected an error for a missing document")
	}
}

func TestFileImagePixels(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bg.png")
	if err := imaging.Save(image.NewNRGBA(image.Rect(0, 0, 8, 4)), src); err != nil {
		t.Fatal(err)
	}

	p := &fileImagePixels{path: src}

	img, err := p.Image()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("image is %v, want 8x4", img.Bounds())
	}

	dest := filepath.Join(dir, "out.png")
	if err := p.SaveTo(dest); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("SaveTo did not write the file: %v", err)
	}
}
