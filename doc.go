// Package psdconverter converts layered Photoshop documents into a
// JSON layout tree (groups, images and text with parent-relative
// coordinates) plus one cropped image file per visible raster layer.
//
// The CLI lives in cmd/psd-converter; this root package exposes the same
// pipeline as a Go API so that callers can embed conversion in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named psdconverter:
//
//	import "github.com/hellenic-development/psd-converter" // package psdconverter
//
// # Quick start
//
//	result, err := psdconverter.Convert("design.psd", psdconverter.Options{
//	    OutJSONDir: "out",
//	    OutImgDir:  "out",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.JSON)
//
// ConvertToDir("design.psd", "out", nil) is the shorthand for writing
// both the JSON tree and the layer images below one directory.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages and per-layer warnings. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// Failures while exporting a single layer are warnings: the layer stays
// in the layout tree without a file name and the conversion continues.
// Only document-level failures (unreadable file, malformed tree) make
// Convert return an error.
//
// # Image export
//
// When [Options.OutImgDir] is set, every visible raster layer is written
// as a PNG into per-group subdirectories mirroring the document
// hierarchy, or, with [Options.FlattenImagePath], into one directory
// under collision-free path-derived names. [Options.MaxResolution] crops
// each layer to its visible portion of the canvas; a layer wholly
// outside it yields a 1x1 transparent placeholder.
//
// # Input formats
//
// Documents are parsed by pkg/psd: Photoshop files via
// github.com/oov/psd, or pre-parsed JSON layer trees whose raster layers
// reference source images by relative path.
package psdconverter
