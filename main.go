package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/soocke/ultron-go/app"
	"github.com/soocke/ultron-go/config"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("ultron"),
		kong.Description("Screen capture, template search and cursor control."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		slog.Warn("config load failed, using defaults", "path", cli.Config, "error", err)
	}
	cli.apply(cfg)
	logger := NewLogger(os.Stderr, cfg.Level())

	c := app.BuildContainer(cfg, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = kctx.Run(&runContext{Ctx: ctx, App: c.App, Out: os.Stdout, Logger: logger})
	stop()

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if cerr := c.Close(closeCtx); cerr != nil {
		logger.Warn("dispatcher shutdown", "error", cerr)
	}
	kctx.FatalIfErrorf(err)
}
