package capture

import (
	"time"

	"github.com/soocke/ultron-go/domain/raster"
)

// FrameSnapshot carries the latest captured frame and metadata.
type FrameSnapshot struct {
	Frame      raster.Raster
	Origin     Region
	CapturedAt time.Time
	Sequence   uint64
}

// CaptureStats summarises capture loop behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Skipped          uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}
