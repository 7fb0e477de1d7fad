package psd

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/oov/psd"

	"github.com/hellenic-development/psd-converter/pkg/layered"
)

// userMaskChannel is the channel id Photoshop assigns to a layer's user
// supplied mask.
const userMaskChannel = -2

// rasterPixels builds the pixel source for a non-folder, non-text layer.
// prior holds the layer's preceding siblings in document order, needed
// to merge clipped layers with their base layer's mask.
func rasterPixels(l *psd.Layer, prior []psd.Layer) layered.PixelSource {
	if l.Picker == nil || !l.HasImage() {
		return nil
	}

	if hasInfo(l, smartObjectKey) || hasInfo(l, placedLayerKey) {
		return &smartObjectPixels{img: l.Picker}
	}

	if l.Clipping {
		if mask := baseLayerMask(prior); mask != nil {
			return &clippedPixels{img: l.Picker, mask: mask, rect: l.Rect}
		}
	}

	return &layerPixels{img: l.Picker}
}

// baseLayerMask walks backward through the preceding siblings to the
// first one that is not itself clipped and returns its mask channel, or
// nil when the base layer carries none.
func baseLayerMask(prior []psd.Layer) image.Image {
	for i := len(prior) - 1; i >= 0; i-- {
		base := &prior[i]
		if base.Clipping {
			continue
		}
		if ch, ok := base.Channel[userMaskChannel]; ok && ch.Picker != nil {
			return ch.Picker
		}
		return nil
	}
	return nil
}

// layerPixels is a directly croppable in-memory layer image.
type layerPixels struct {
	img image.Image
}

func (p *layerPixels) Image() (image.Image, error) { return p.img, nil }

func (p *layerPixels) SaveTo(path string) error { return imaging.Save(p.img, path) }

// smartObjectPixels deliberately withholds the direct-crop capability:
// smart objects are materialized by the export pipeline through SaveTo
// and reprocessed from the temporary file.
type smartObjectPixels struct {
	img image.Image
}

func (p *smartObjectPixels) SaveTo(path string) error { return imaging.Save(p.img, path) }

// clippedPixels merges a clipped layer's composite with the base layer's
// mask channel. Both images live in document coordinates; the merge
// rebases the result onto the layer's own origin.
type clippedPixels struct {
	img  image.Image
	mask image.Image
	rect image.Rectangle
}

func (p *clippedPixels) Image() (image.Image, error) {
	out := image.NewNRGBA(image.Rect(0, 0, p.rect.Dx(), p.rect.Dy()))
	draw.DrawMask(out, out.Bounds(), p.img, p.rect.Min, p.mask, p.rect.Min, draw.Src)
	return out, nil
}

func (p *clippedPixels) SaveTo(path string) error {
	img, err := p.Image()
	if err != nil {
		return err
	}
	return imaging.Save(img, path)
}

// fileImagePixels lazily reads a raster layer's pixels from a source
// image referenced by a pre-parsed JSON tree.
type fileImagePixels struct {
	path string
}

func (p *fileImagePixels) Image() (image.Image, error) { return imaging.Open(p.path) }

func (p *fileImagePixels) SaveTo(dest string) error {
	img, err := imaging.Open(p.path)
	if err != nil {
		return err
	}
	return imaging.Save(img, dest)
}
