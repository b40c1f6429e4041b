package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/ultron-go/config"
	"github.com/soocke/ultron-go/debug"
	"github.com/soocke/ultron-go/dispatch"
	"github.com/soocke/ultron-go/domain/action"
	"github.com/soocke/ultron-go/domain/capture"
)

const debugLogInterval = 5 * time.Second

// AppContainer assembles the dispatcher, platform back-ends and the App facade.
type AppContainer struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *dispatch.Pool
	Screen capture.Screen
	Mouse  action.Mouse
	App    *App

	stopDebug context.CancelFunc
}

// BuildContainer constructs all components. With cfg.Debug set it also starts
// the runtime and dispatcher loggers; Close stops them.
func BuildContainer(cfg *config.Config, logger *slog.Logger) *AppContainer {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Pool = dispatch.New(cfg.Workers, logger)
	c.Screen = capture.NewScreen()
	c.Mouse = action.NewMouse()
	c.App = New(cfg, logger, c.Pool, c.Screen, c.Mouse)
	if cfg.Debug {
		ctx, cancel := context.WithCancel(context.Background())
		c.stopDebug = cancel
		debug.StartGoroutineLogger(ctx, debugLogInterval, logger)
		debug.StartDispatchLogger(ctx, debugLogInterval, c.Pool, logger)
	}
	return c
}

// Close stops debug loggers and drains the dispatcher.
func (c *AppContainer) Close(ctx context.Context) error {
	if c.stopDebug != nil {
		c.stopDebug()
	}
	return c.Pool.Close(ctx)
}
