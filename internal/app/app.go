package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/mdrun/internal/ctxlog"
	"github.com/vk/mdrun/internal/filestore"
	"github.com/vk/mdrun/internal/inmemorystore"
	"github.com/vk/mdrun/internal/registry"
	"github.com/vk/mdrun/internal/state"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	logCloser io.Closer
	registry  *registry.Registry
	persister state.Persister
	config    *Config
	view      *view
}

// NewApp is the constructor for the main application. Rendered documents go
// to outW and log records to logW. It returns a fully initialized App
// instance, including its own isolated logger and registry.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger, closer, err := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile, logW)
	if err != nil {
		return nil, err
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All block modules registered.", "count", len(modules))

	if err := reg.ValidateRegistry(ctx); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("invalid block registry: %w", err)
	}
	logger.Debug("Registry validation passed.")

	var persister state.Persister
	if cfg.StateDir != "" {
		persister = filestore.New(cfg.StateDir)
		logger.Debug("Snapshots are stored on disk.", "dir", cfg.StateDir)
	} else {
		persister = inmemorystore.New()
	}

	return &App{
		outW:      outW,
		logger:    logger,
		logCloser: closer,
		registry:  reg,
		persister: persister,
		config:    cfg,
		view:      newView(outW),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Persister returns the snapshot store shared by every run of the app.
func (a *App) Persister() state.Persister {
	return a.persister
}
