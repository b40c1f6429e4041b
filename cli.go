package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/soocke/ultron-go/app"
	"github.com/soocke/ultron-go/config"
	"github.com/soocke/ultron-go/domain/capture"
	"github.com/soocke/ultron-go/domain/raster"
)

// CLI is the root command line.
type CLI struct {
	Config  string `help:"Path to JSON config file." default:"ultron.json" type:"path"`
	Debug   bool   `help:"Enable debug logging and runtime stats."`
	Workers int    `help:"Dispatcher workers; 0 keeps the configured value."`

	Capture  CaptureCmd  `cmd:"" help:"Capture a screen region to an image file."`
	Search   SearchCmd   `cmd:"" help:"Find a template image inside a source image."`
	Move     MoveCmd     `cmd:"" help:"Move the mouse cursor."`
	Displays DisplaysCmd `cmd:"" help:"Print the number of active displays."`
	Wait     WaitCmd     `cmd:"" help:"Wait until a template appears on screen."`
}

func (c *CLI) apply(cfg *config.Config) {
	if c.Debug {
		cfg.Debug = true
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	_ = cfg.Validate()
}

type runContext struct {
	Ctx    context.Context
	App    *app.App
	Out    io.Writer
	Logger *slog.Logger
}

func (r *runContext) print(v any) error {
	enc := json.NewEncoder(r.Out)
	return enc.Encode(v)
}

type matchResult struct {
	Found bool   `json:"found"`
	X     uint32 `json:"x"`
	Y     uint32 `json:"y"`
}

// RegionFlags selects a rectangle on a display.
type RegionFlags struct {
	X       float64 `help:"Left edge." default:"0"`
	Y       float64 `help:"Top edge." default:"0"`
	Width   float64 `help:"Region width." short:"W" required:""`
	Height  float64 `help:"Region height." short:"H" required:""`
	Display int     `help:"Display index; negative selects the primary display." default:"-1"`
}

func (f RegionFlags) region() capture.Region {
	return capture.Region{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

func (f RegionFlags) display() *uint32 {
	if f.Display < 0 {
		return nil
	}
	d := uint32(f.Display)
	return &d
}

type CaptureCmd struct {
	RegionFlags
	Out string `arg:"" help:"Output image; format follows the extension." type:"path"`
}

func (c *CaptureCmd) Run(r *runContext) error {
	frame, err := r.App.Capture(c.X, c.Y, c.Width, c.Height, c.display())
	if err != nil {
		return err
	}
	if err := r.App.SaveImage(r.Ctx, frame, c.Out); err != nil {
		return err
	}
	r.Logger.Info("captured", "path", c.Out, "width", frame.Width, "height", frame.Height)
	return nil
}

type SearchCmd struct {
	Source  string `arg:"" help:"Image to search in." type:"existingfile"`
	Target  string `arg:"" help:"Template image to find." type:"existingfile"`
	Variant int32  `help:"Per-channel tolerance; 0 requires exact matches." default:"0"`
}

// Run searches one image file inside another. Files load as RGBA while the
// engine reads the source as BGRA, so the source is swapped first.
func (c *SearchCmd) Run(r *runContext) error {
	src, err := r.App.LoadImage(r.Ctx, c.Source)
	if err != nil {
		return err
	}
	tgt, err := r.App.LoadImage(r.Ctx, c.Target)
	if err != nil {
		return err
	}
	p, ok, err := r.App.Search(r.Ctx, raster.ToBGRA(src), tgt, c.Variant)
	if err != nil {
		return err
	}
	return r.print(matchResult{Found: ok, X: p.X, Y: p.Y})
}

type MoveCmd struct {
	X uint32 `arg:"" help:"Horizontal position."`
	Y uint32 `arg:"" help:"Vertical position."`
}

func (c *MoveCmd) Run(r *runContext) error {
	return r.App.MoveMouse(c.X, c.Y)
}

type DisplaysCmd struct{}

func (c *DisplaysCmd) Run(r *runContext) error {
	n, err := r.App.ActiveDisplayCount()
	if err != nil {
		return err
	}
	return r.print(map[string]uint32{"displays": n})
}

type WaitCmd struct {
	RegionFlags
	Target   string        `arg:"" help:"Template image to wait for." type:"existingfile"`
	Variant  int32         `help:"Per-channel tolerance; 0 requires exact matches." default:"0"`
	Interval time.Duration `help:"Capture interval; 0 uses the configured poll interval." default:"0s"`
	Timeout  time.Duration `help:"Give up after this long; 0 waits forever." default:"30s"`
	Move     bool          `help:"Move the cursor onto the match."`
}

func (c *WaitCmd) Run(r *runContext) error {
	tgt, err := r.App.LoadImage(r.Ctx, c.Target)
	if err != nil {
		return err
	}
	ctx := r.Ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	p, err := r.App.WaitFor(ctx, tgt, c.region(), c.display(), c.Variant, c.Interval)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", c.Target, err)
	}
	if c.Move {
		if err := r.App.MoveMouse(p.X, p.Y); err != nil {
			return err
		}
	}
	return r.print(matchResult{Found: true, X: p.X, Y: p.Y})
}
