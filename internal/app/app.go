package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/specialistvlad/palletforge/internal/catalogue"
	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/generation"
	"github.com/specialistvlad/palletforge/internal/orchestrator"
	"github.com/specialistvlad/palletforge/internal/resolve"
)

// App encapsulates the application's dependencies, configuration and
// lifecycle.
type App struct {
	outW      io.Writer
	ctx       context.Context
	config    *Config
	catalogue *catalogue.Catalogue
	service   *generation.Service

	mu           sync.Mutex
	orchestrator *orchestrator.Orchestrator
	redis        *redis.Client
	httpServer   *http.Server
}

// NewApp builds an App with its own logger and loads the catalogue. A
// catalogue that fails to load is a fatal startup error and panics.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cat, err := catalogue.Load(ctx, cfg.CataloguePath)
	if err != nil {
		panic(fmt.Errorf("failed to load catalogue: %w", err))
	}

	return &App{
		outW:      outW,
		ctx:       ctx,
		config:    cfg,
		catalogue: cat,
		service:   generation.New(cat, nil, serviceOptions(cfg)),
	}
}

func serviceOptions(cfg *Config) generation.Options {
	return generation.Options{
		Target:    cfg.Target,
		Overrides: resolve.OverrideOptions{Strict: cfg.StrictOverrides},
	}
}

// Context returns the application context carrying its logger.
func (a *App) Context() context.Context {
	return a.ctx
}

// Catalogue returns the loaded catalogue.
func (a *App) Catalogue() *catalogue.Catalogue {
	return a.catalogue
}

// Service returns the generation service. Before Start it can resolve and
// synthesize but not submit.
func (a *App) Service() *generation.Service {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.service
}
