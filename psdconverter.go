package psdconverter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/hellenic-development/psd-converter/pkg/export"
	"github.com/hellenic-development/psd-converter/pkg/flatten"
	"github.com/hellenic-development/psd-converter/pkg/geometry"
	"github.com/hellenic-development/psd-converter/pkg/layered"
	"github.com/hellenic-development/psd-converter/pkg/psd"
)

// MaxResolution constrains the visible canvas during image export. A
// zero axis is unconstrained.
type MaxResolution struct {
	Width  int
	Height int
}

// ParseFunc parses a layered document; it exists so callers can swap
// the default parser (pkg/psd) for their own collaborator.
type ParseFunc func(path string) (*layered.Document, error)

// Options configures one conversion.
type Options struct {
	OutJSONDir string // persist the layout tree to <dir>/<document>.json; empty = don't persist
	OutImgDir  string // root directory for exported layer images; empty = no image export

	// FlattenImagePath emits all images into OutImgDir itself with
	// path-derived unique names instead of mirroring the group
	// hierarchy as subdirectories.
	FlattenImagePath bool

	MaxResolution *MaxResolution

	// PreviewImage additionally writes the document's merged composite
	// (when the parser provides one) to OutImgDir, scaled down to
	// MaxResolution.
	PreviewImage bool

	Parser ParseFunc // nil = psd.Parse
	Logger Logger    // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the conversion output.
type Result struct {
	Document *layered.Document
	Layout   []*flatten.LayoutNode
	JSON     string // pretty-printed layout tree
	JSONPath string // path of the persisted JSON file, when requested
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

// Convert runs the conversion pipeline for one document: parse, flatten,
// serialize, and optionally persist the JSON tree and layer images.
//
// Per-layer export failures are logged through Options.Logger and do not
// abort the conversion; only document-level failures return an error.
func Convert(documentPath string, opts Options) (*Result, error) {
	parse := opts.Parser
	if parse == nil {
		parse = psd.Parse
	}

	opts.logInfo("Parsing %s...", filepath.Base(documentPath))
	doc, err := parse(documentPath)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	opts.logInfo("Document: %s (%dx%d)", doc.Name, doc.Width, doc.Height)

	cfg := flatten.Config{
		Flatten: opts.FlattenImagePath,
		Logger:  warnLogger{&opts},
	}
	if opts.OutImgDir != "" {
		pipeline := &export.Pipeline{
			Dir:    opts.OutImgDir,
			Logger: warnLogger{&opts},
		}
		if opts.MaxResolution != nil {
			pipeline.MaxWidth = opts.MaxResolution.Width
			pipeline.MaxHeight = opts.MaxResolution.Height
		}
		cfg.Exporter = pipeline
		opts.logInfo("Exporting layer images to %s...", opts.OutImgDir)
	}

	opts.logInfo("Flattening layer tree...")
	layout := flatten.Flatten(doc.Root, cfg)

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize layout tree: %w", err)
	}

	result := &Result{
		Document: doc,
		Layout:   layout,
		JSON:     string(data),
	}

	if opts.OutJSONDir != "" {
		if err := os.MkdirAll(opts.OutJSONDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory %q: %w", opts.OutJSONDir, err)
		}
		jsonPath := filepath.Join(opts.OutJSONDir, doc.Name+".json")
		if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", jsonPath, err)
		}
		result.JSONPath = jsonPath
		opts.logInfo("Layout tree written to %s", jsonPath)
	}

	if opts.PreviewImage && opts.OutImgDir != "" {
		if err := writePreview(doc, &opts); err != nil {
			// The preview is a convenience; its failure does not void
			// the conversion.
			opts.logWarn("preview image: %v", err)
		}
	}

	return result, nil
}

// ConvertToDir is the single-directory shorthand: both the JSON tree and
// the layer images are written below dir.
func ConvertToDir(documentPath, dir string, logger Logger) (*Result, error) {
	return Convert(documentPath, Options{
		OutJSONDir: dir,
		OutImgDir:  dir,
		Logger:     logger,
	})
}

// writePreview saves the document's merged composite next to the layer
// images, scaled down to the configured maximum resolution.
func writePreview(doc *layered.Document, opts *Options) error {
	if doc.Merged == nil {
		return fmt.Errorf("parser provided no merged image")
	}

	img := doc.Merged
	w, h := doc.Width, doc.Height
	if opts.MaxResolution != nil {
		if tw, th := geometry.ScaleToFit(w, h, opts.MaxResolution.Width, opts.MaxResolution.Height); tw != w || th != h {
			img = imaging.Resize(img, tw, th, imaging.Lanczos)
			w, h = tw, th
		}
	}

	if err := os.MkdirAll(opts.OutImgDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(opts.OutImgDir, doc.Name+".png")
	if err := imaging.Save(img, path); err != nil {
		return err
	}
	opts.logInfo("Preview (%dx%d) written to %s", w, h, path)
	return nil
}

// warnLogger adapts Options' nil-safe logging to the single-method
// warning interfaces of pkg/flatten and pkg/export.
type warnLogger struct {
	opts *Options
}

func (w warnLogger) Warnf(format string, args ...any) { w.opts.logWarn(format, args...) }
