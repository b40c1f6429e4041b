//go:build linux

package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"

	"github.com/soocke/ultron-go/domain/raster"
)

// grabPrimary captures rect from the X11 root window. The library returns
// RGBA pixels which are reordered to BGRA.
func grabPrimary(rect image.Rectangle) (raster.Raster, error) {
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return raster.Raster{}, fmt.Errorf("%w: screen bounds: %w", ErrCapture, err)
	}
	r, err := clip(rect, screen)
	if err != nil {
		return raster.Raster{}, err
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return raster.Raster{}, fmt.Errorf("%w: rect %v: %w", ErrCapture, r, err)
	}
	return raster.FromRGBA(img, raster.BGRA), nil
}
