package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/taskmill/taskmill/internal/ctxlog"
	"github.com/taskmill/taskmill/internal/hclplan"
	"github.com/taskmill/taskmill/internal/plan"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	plan    *plan.Plan
	startAt time.Time
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger. In plan mode
// the plan is loaded and validated here, before any scheduling starts.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}

	if cfg.StartTime != "" {
		startAt, err := plan.ParseTimestamp(cfg.StartTime)
		if err != nil {
			// NewConfig already vets the format, so this only trips when a
			// Config is built by hand.
			panic(fmt.Errorf("failed to parse start time: %w", err))
		}
		a.startAt = startAt
	}

	if cfg.Serve {
		logger.Debug("Serve mode requested, plan loading deferred to API requests.")
		return a
	}

	p, err := hclplan.Load(ctx, cfg.PlanPath)
	if err != nil {
		// A failure to load the plan is a fatal startup error.
		panic(fmt.Errorf("failed to load plan: %w", err))
	}
	logger.Debug("Plan loaded.", "tasks", len(p.Tasks))

	if err := p.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Plan validation passed.")

	a.plan = p
	return a
}

// Plan returns the loaded plan. This is primarily for testing.
func (a *App) Plan() *plan.Plan {
	return a.plan
}
