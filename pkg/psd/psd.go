// Package psd is the parser collaborator boundary of the converter. It
// turns a layered document on disk into the raw node tree consumed by
// pkg/layered's adapter.
//
// Two input formats are understood: Photoshop documents (.psd/.psb),
// decoded with github.com/oov/psd, and pre-parsed JSON layer trees as
// emitted by the previous toolchain. The JSON path is the reason the
// adapter tolerates the legacy "_children" field name.
package psd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oov/psd"

	"github.com/hellenic-development/psd-converter/pkg/layered"
)

// Additional-info keys of interest in the layer records.
const (
	typeToolKey    = psd.AdditionalInfoKey("TySh")
	smartObjectKey = psd.AdditionalInfoKey("SoLd")
	placedLayerKey = psd.AdditionalInfoKey("PlLd")
)

// Parse reads the layered document at path and returns its canonical
// tree. The format is chosen by extension: ".json" selects the
// pre-parsed tree path, everything else is decoded as a Photoshop
// document.
func Parse(path string) (*layered.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSONTree(path)
	}
	return parsePSD(path)
}

func docName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parsePSD(path string) (*layered.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	img, _, err := psd.Decode(f, &psd.DecodeOptions{})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	rect := img.Config.Rect
	root := &layered.RawNode{
		Type:   "group",
		Name:   docName(path),
		Width:  rect.Dx(),
		Height: rect.Dy(),
	}
	root.Children = convertLayers(img.Layer)

	return &layered.Document{
		Name:   docName(path),
		Width:  rect.Dx(),
		Height: rect.Dy(),
		Root:   layered.Normalize(root),
		Merged: img.Picker,
	}, nil
}

// convertLayers maps a slice of decoded layers onto raw nodes, keeping
// the decoder's sibling order so that a clipped layer's base layer stays
// a preceding sibling.
func convertLayers(layers []psd.Layer) []*layered.RawNode {
	nodes := make([]*layered.RawNode, 0, len(layers))

	for i := range layers {
		l := &layers[i]

		visible := l.Visible()
		raw := &layered.RawNode{
			Name:    l.Name,
			Visible: &visible,
			Left:    l.Rect.Min.X,
			Top:     l.Rect.Min.Y,
			Width:   l.Rect.Dx(),
			Height:  l.Rect.Dy(),
			Clipped: l.Clipping,
		}

		if !l.Mask.Rect.Empty() {
			left, top := l.Mask.Rect.Min.X, l.Mask.Rect.Min.Y
			raw.Mask = &layered.RawMask{
				Left:   &left,
				Top:    &top,
				Width:  l.Mask.Rect.Dx(),
				Height: l.Mask.Rect.Dy(),
			}
		}

		switch {
		case l.Folder():
			raw.Type = "group"
			raw.Children = convertLayers(l.Layer)
		case hasInfo(l, typeToolKey):
			raw.Type = "text"
			raw.Text = parseTypeTool(l.AdditionalLayerInfo[typeToolKey])
		default:
			raw.Type = "raster"
			raw.Pixels = rasterPixels(l, layers[:i])
		}

		nodes = append(nodes, raw)
	}

	return nodes
}

func hasInfo(l *psd.Layer, key psd.AdditionalInfoKey) bool {
	_, ok := l.AdditionalLayerInfo[key]
	return ok
}

// parseJSONTree loads a pre-parsed layer tree. The document may be
// either a root object or a bare array of top-level nodes; raster nodes
// reference their source images via "src", resolved relative to the
// document's directory.
func parseJSONTree(path string) (*layered.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	root := &layered.RawNode{Type: "group"}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("[")) {
		if err := json.Unmarshal(data, &root.Children); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := json.Unmarshal(data, root); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		if root.Type == "" {
			root.Type = "group"
		}
	}
	if root.Name == "" {
		root.Name = docName(path)
	}

	bindImageSources(root, filepath.Dir(path))

	return &layered.Document{
		Name:   docName(path),
		Width:  root.Width,
		Height: root.Height,
		Root:   layered.Normalize(root),
	}, nil
}

// bindImageSources attaches file-backed pixel sources to raster nodes
// that carry a "src" reference.
func bindImageSources(raw *layered.RawNode, dir string) {
	if raw.Src != "" && raw.Pixels == nil {
		raw.Pixels = &fileImagePixels{path: filepath.Join(dir, filepath.FromSlash(raw.Src))}
	}
	for _, child := range raw.ChildNodes() {
		bindImageSources(child, dir)
	}
}
