//go:build !linux && !windows

package capture

import (
	"fmt"
	"image"

	kbscreen "github.com/kbinani/screenshot"

	"github.com/soocke/ultron-go/domain/raster"
)

// grabPrimary captures rect from display 0.
func grabPrimary(rect image.Rectangle) (raster.Raster, error) {
	if kbscreen.NumActiveDisplays() <= 0 {
		return raster.Raster{}, fmt.Errorf("%w: no active displays", ErrNoDisplay)
	}
	r, err := clip(rect, kbscreen.GetDisplayBounds(0))
	if err != nil {
		return raster.Raster{}, err
	}
	img, err := kbscreen.CaptureRect(r)
	if err != nil {
		return raster.Raster{}, fmt.Errorf("%w: rect %v: %w", ErrCapture, r, err)
	}
	return raster.FromRGBA(img, raster.BGRA), nil
}
