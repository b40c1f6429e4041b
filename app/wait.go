package app

import (
	"context"
	"fmt"
	"time"

	"github.com/soocke/ultron-go/domain/capture"
	"github.com/soocke/ultron-go/domain/raster"
)

// WaitFor captures region every interval until target appears in it and
// returns the match in display coordinates. A non-positive interval uses the
// configured poll interval. It gives up when ctx is done.
func (a *App) WaitFor(ctx context.Context, target raster.Raster, region capture.Region, display *uint32, variant int32, interval time.Duration) (raster.Point, error) {
	rect, err := region.Rect()
	if err != nil {
		return raster.Point{}, err
	}
	if err := target.Validate(); err != nil {
		return raster.Point{}, fmt.Errorf("%w: target: %w", ErrInvalidRaster, err)
	}
	// Capture clips to the display, so the frame origin never sits below zero.
	originX := uint32(max(rect.Min.X, 0))
	originY := uint32(max(rect.Min.Y, 0))

	if interval <= 0 {
		interval = a.cfg.PollInterval()
	}
	svc := capture.NewCaptureService(a.screen, region, display, interval, a.logger)
	svc.Start()
	defer svc.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var seen uint64
	for {
		select {
		case <-ctx.Done():
			return raster.Point{}, ctx.Err()
		case <-ticker.C:
		}
		snap := svc.LatestFrame()
		if snap.Sequence == 0 || snap.Sequence == seen {
			continue
		}
		seen = snap.Sequence
		p, ok, err := a.Search(ctx, snap.Frame, target, variant)
		if err != nil {
			return raster.Point{}, err
		}
		if !ok {
			continue
		}
		at := raster.Point{X: originX + p.X, Y: originY + p.Y}
		a.logger.Info("wait.matched", "x", at.X, "y", at.Y, "frame", snap.Sequence)
		return at, nil
	}
}
