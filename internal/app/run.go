package app

import (
	"context"
	"fmt"

	"github.com/taskmill/taskmill/internal/ctxlog"
	"github.com/taskmill/taskmill/internal/engine"
	"github.com/taskmill/taskmill/internal/registry"
	"github.com/taskmill/taskmill/internal/report"
)

// Run executes the main application logic based on the configured mode.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Serve {
		return a.serve()
	}
	return a.runPlan(ctx)
}

// runPlan performs one scheduling pass over the loaded plan and renders the
// outcome to the application writer. A stalled pass is reported, not failed:
// the report names the unscheduled tasks and the process still exits zero.
func (a *App) runPlan(ctx context.Context) error {
	reg := registry.New()
	for _, t := range a.plan.Materialize() {
		reg.Add(t)
	}
	a.logger.Debug("Tasks staged for scheduling.", "count", reg.Len())

	cfg := engine.Config{}
	if a.plan.StartAt != nil {
		cfg.StartAt = *a.plan.StartAt
	}
	if !a.startAt.IsZero() {
		// An explicit start time wins over the plan's own start_time.
		cfg.StartAt = a.startAt
	}

	a.logger.Info("🚀 Starting scheduling pass...")
	result := engine.New(reg, cfg).Schedule(ctx)

	doc := report.NewRunDocument(result)
	writer := report.NewWriter(a.outW)
	if a.config.Output == "json" {
		if err := writer.WriteJSON(doc); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		return nil
	}
	if err := writer.WriteText(doc); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
