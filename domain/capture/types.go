package capture

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/soocke/ultron-go/domain/raster"
)

var (
	ErrCapture       = errors.New("capture failed")
	ErrNoDisplay     = errors.New("capture: no such display")
	ErrInvalidRegion = errors.New("capture: invalid region")
)

// Region is a capture rectangle in display coordinates. Fractional edges
// are widened to whole pixels.
type Region struct {
	X, Y, Width, Height float64
}

// Rect converts r to the smallest pixel rectangle that covers it.
func (r Region) Rect() (image.Rectangle, error) {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return image.Rectangle{}, fmt.Errorf("%w: %+v", ErrInvalidRegion, r)
		}
	}
	if r.Width <= 0 || r.Height <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %+v", ErrInvalidRegion, r)
	}
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	x1 := int(math.Ceil(r.X + r.Width))
	y1 := int(math.Ceil(r.Y + r.Height))
	return image.Rect(x0, y0, x1, y1), nil
}

// Screen is a capture back-end. Rasters it returns use BGRA channel order.
type Screen interface {
	// Capture grabs region from display, or from the primary display when
	// display is nil. The region is clipped to the display bounds.
	Capture(region Region, display *uint32) (raster.Raster, error)
	ActiveDisplayCount() (uint32, error)
}

// FrameSource provides read-only access to polled frames.
type FrameSource interface {
	LatestFrame() FrameSnapshot
	Running() bool
}

// ServiceContract exposes basic lifecycle control for capture services.
type ServiceContract interface {
	Start()
	Stop()
	Running() bool
}
