package capture

import (
	"fmt"
	"image"

	kbscreen "github.com/kbinani/screenshot"

	"github.com/soocke/ultron-go/domain/raster"
)

type platformScreen struct{}

// NewScreen returns the capture back-end for the running platform. The
// primary display goes through grabPrimary; indexed displays are enumerated
// and captured in virtual-screen coordinates.
func NewScreen() Screen { return platformScreen{} }

func (platformScreen) ActiveDisplayCount() (uint32, error) {
	n := kbscreen.NumActiveDisplays()
	if n <= 0 {
		return 0, fmt.Errorf("%w: no active displays", ErrNoDisplay)
	}
	return uint32(n), nil
}

func (s platformScreen) Capture(region Region, display *uint32) (raster.Raster, error) {
	rect, err := region.Rect()
	if err != nil {
		return raster.Raster{}, err
	}
	if display == nil {
		return grabPrimary(rect)
	}
	n, err := s.ActiveDisplayCount()
	if err != nil {
		return raster.Raster{}, err
	}
	if *display >= n {
		return raster.Raster{}, fmt.Errorf("%w: index %d, %d active", ErrNoDisplay, *display, n)
	}
	bounds := kbscreen.GetDisplayBounds(int(*display))
	abs, err := clip(rect.Add(bounds.Min), bounds)
	if err != nil {
		return raster.Raster{}, err
	}
	img, err := kbscreen.CaptureRect(abs)
	if err != nil {
		return raster.Raster{}, fmt.Errorf("%w: display %d rect %v: %w", ErrCapture, *display, abs, err)
	}
	return raster.FromRGBA(img, raster.BGRA), nil
}

// clip intersects rect with the display bounds.
func clip(rect, screen image.Rectangle) (image.Rectangle, error) {
	r := rect.Intersect(screen)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %v outside screen %v", ErrInvalidRegion, rect, screen)
	}
	return r, nil
}
