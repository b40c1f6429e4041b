package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/ultron-go/config"
	"github.com/soocke/ultron-go/dispatch"
	"github.com/soocke/ultron-go/domain/action"
	"github.com/soocke/ultron-go/domain/capture"
	"github.com/soocke/ultron-go/domain/codec"
	"github.com/soocke/ultron-go/domain/raster"
	"github.com/soocke/ultron-go/domain/search"
)

var (
	// ErrInvalidRaster wraps the validation failure of a raster passed to Search.
	ErrInvalidRaster = errors.New("invalid raster")
	// ErrBufferConstruction is returned by SaveImage when the raster's data
	// does not describe a complete image.
	ErrBufferConstruction = codec.ErrBuffer
)

// App exposes the automation primitives. Save, load and search run on the
// dispatcher's workers against private copies of their inputs; capture,
// cursor and display calls run on the caller's goroutine.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *dispatch.Pool
	screen     capture.Screen
	mouse      action.Mouse
	searchOpts search.Options
	codecOpts  codec.Options
}

// New wires an App. Nil collaborators fall back to the platform back-ends and
// a pool sized from cfg.
func New(cfg *config.Config, logger *slog.Logger, pool *dispatch.Pool, screen capture.Screen, mouse action.Mouse) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	_ = cfg.Validate()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if pool == nil {
		pool = dispatch.New(cfg.Workers, logger)
	}
	if screen == nil {
		screen = capture.NewScreen()
	}
	if mouse == nil {
		mouse = action.NewMouse()
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		screen: screen,
		mouse:  mouse,
		searchOpts: search.Options{
			Workers:         cfg.SearchWorkers,
			MinParallelWork: cfg.MinParallelWork,
		},
		codecOpts: codec.Options{JPEGQuality: cfg.JPEGQuality},
	}
}

// Pool returns the dispatcher backing the App.
func (a *App) Pool() *dispatch.Pool { return a.pool }

// SaveImage writes r to path; the format follows the extension. BGRA rasters
// are converted to RGBA before encoding.
func (a *App) SaveImage(ctx context.Context, r raster.Raster, path string) error {
	snap, release := dispatch.Snapshot(r)
	_, err := dispatch.Submit(ctx, a.pool, "save_image", func() (struct{}, error) {
		defer release()
		return struct{}{}, codec.Save(snap, path, a.codecOpts)
	})
	if err != nil {
		a.logger.Error("save image", "path", path, "error", err)
		return err
	}
	a.logger.Debug("image.saved", "path", path, "width", r.Width, "height", r.Height, "color_type", r.ColorType)
	return nil
}

// LoadImage decodes path into an RGBA raster.
func (a *App) LoadImage(ctx context.Context, path string) (raster.Raster, error) {
	r, err := dispatch.Submit(ctx, a.pool, "load_image", func() (raster.Raster, error) {
		return codec.Load(path)
	})
	if err != nil {
		a.logger.Error("load image", "path", path, "error", err)
		return raster.Raster{}, err
	}
	a.logger.Debug("image.loaded", "path", path, "width", r.Width, "height", r.Height)
	return r, nil
}

// Search locates the first occurrence of target in source; see search.Search
// for the channel convention and the meaning of variant. A miss is reported
// as found == false with a nil error.
func (a *App) Search(ctx context.Context, source, target raster.Raster, variant int32) (raster.Point, bool, error) {
	if err := source.Validate(); err != nil {
		return raster.Point{}, false, fmt.Errorf("%w: source: %w", ErrInvalidRaster, err)
	}
	if err := target.Validate(); err != nil {
		return raster.Point{}, false, fmt.Errorf("%w: target: %w", ErrInvalidRaster, err)
	}
	src, releaseSrc := dispatch.Snapshot(source)
	tgt, releaseTgt := dispatch.Snapshot(target)

	type found struct {
		p  raster.Point
		ok bool
	}
	start := time.Now()
	res, err := dispatch.Submit(ctx, a.pool, "search", func() (found, error) {
		defer releaseSrc()
		defer releaseTgt()
		p, ok := search.SearchWithOptions(src, tgt, variant, a.searchOpts)
		return found{p, ok}, nil
	})
	if err != nil {
		return raster.Point{}, false, err
	}
	a.logger.Debug("search.done",
		"found", res.ok,
		"x", res.p.X,
		"y", res.p.Y,
		"variant", variant,
		"elapsed", time.Since(start),
	)
	return res.p, res.ok, nil
}

// SearchDefault is Search with the configured default variant.
func (a *App) SearchDefault(ctx context.Context, source, target raster.Raster) (raster.Point, bool, error) {
	return a.Search(ctx, source, target, a.cfg.DefaultVariant)
}

// Capture grabs the x, y, width, height rectangle from display (primary when
// nil) as a BGRA raster.
func (a *App) Capture(x, y, width, height float64, display *uint32) (raster.Raster, error) {
	region := capture.Region{X: x, Y: y, Width: width, Height: height}
	r, err := a.screen.Capture(region, display)
	if err != nil {
		a.logger.Error("capture", "region", region, "error", err)
		return raster.Raster{}, err
	}
	return r, nil
}

// MoveMouse warps the cursor to (x, y).
func (a *App) MoveMouse(x, y uint32) error {
	if err := a.mouse.MoveMouse(x, y); err != nil {
		a.logger.Error("move mouse", "x", x, "y", y, "error", err)
		return err
	}
	return nil
}

// ActiveDisplayCount reports how many displays are attached and active.
func (a *App) ActiveDisplayCount() (uint32, error) {
	return a.screen.ActiveDisplayCount()
}
