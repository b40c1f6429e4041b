// Package codec moves rasters between memory and image files. Formats are
// chosen by file extension: png, jpg/jpeg, gif, bmp and tif/tiff can be read
// and written; webp can only be read.
package codec

import (
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/soocke/ultron-go/domain/raster"
)

var (
	ErrOpen   = errors.New("failed to open image")
	ErrSave   = errors.New("failed to save image")
	ErrBuffer = errors.New("failed to create image buffer")
)

// Options tunes encoding.
type Options struct {
	JPEGQuality int
}

// DefaultOptions matches imaging's own defaults.
func DefaultOptions() Options { return Options{JPEGQuality: 95} }

// Load decodes the file at path into an RGBA raster with 8-bit channels.
// Every decoded color model (paletted, gray, 16-bit, YCbCr) is converted to
// non-premultiplied RGBA, so PixelWidth is always 4.
func Load(path string) (raster.Raster, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return raster.Raster{}, fmt.Errorf("%w %q: %w", ErrOpen, path, err)
	}
	return raster.FromImage(img, raster.RGBA), nil
}

// Save encodes r to path. BGRA rasters are converted to RGBA first. The
// destination is left in whatever state the encoder produced on failure.
func Save(r raster.Raster, path string, opts Options) error {
	img, err := r.ToNRGBA()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuffer, err)
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = DefaultOptions().JPEGQuality
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(opts.JPEGQuality)); err != nil {
		return fmt.Errorf("%w %q: %w", ErrSave, path, err)
	}
	return nil
}
