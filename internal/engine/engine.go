package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskmill/taskmill/internal/ctxlog"
	"github.com/taskmill/taskmill/internal/metrics"
	"github.com/taskmill/taskmill/internal/registry"
	"github.com/taskmill/taskmill/internal/task"
)

// Config carries the knobs for one scheduling pass.
type Config struct {
	// StartAt seeds the logical clock. The zero value means time.Now().
	StartAt time.Time

	// Observer receives scheduling events. Nil disables observation.
	Observer Observer
}

// Engine executes a single simulated scheduling pass over a registry. It is
// single-use: Schedule drains the registry, so each run gets a fresh engine.
type Engine struct {
	reg      *registry.Registry
	clock    time.Time
	observer Observer
}

// New creates an engine over the given registry.
func New(reg *registry.Registry, cfg Config) *Engine {
	e := &Engine{
		reg:      reg,
		clock:    cfg.StartAt,
		observer: cfg.Observer,
	}
	if e.clock.IsZero() {
		e.clock = time.Now()
	}
	if e.observer == nil {
		e.observer = &NopObserver{}
	}
	return e
}

// Schedule runs the pass to completion and returns its outcome. Execution is
// simulated: dispatching a task advances the logical clock by the task's
// duration and completes it immediately, which can release further tasks
// into the candidate pool. The pass cannot fail; a plan whose dependencies
// never resolve yields a stalled result rather than an error.
//
// The context carries the logger. Schedule has no suspension points, so it
// does not react to cancellation.
func (e *Engine) Schedule(ctx context.Context) *Result {
	logger := ctxlog.FromContext(ctx)

	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: e.clock,
	}

	candidates := newPool()
	// enqueued tracks every id that has entered the pool, so re-scans after
	// each completion never enqueue a task twice.
	enqueued := make(map[string]struct{})
	for _, t := range e.reg.Ready() {
		candidates.push(t)
		enqueued[t.ID] = struct{}{}
	}

	logger.Debug("Scheduling pass started.",
		"run_id", result.RunID,
		"start_at", e.clock,
		"tasks", e.reg.Len(),
		"initially_ready", candidates.len(),
	)

	for {
		t, ok := candidates.pop()
		if !ok {
			break
		}

		projectedEnd := e.clock.Add(t.Span())
		if t.Deadline != nil && projectedEnd.After(*t.Deadline) {
			risk := DeadlineRisk{TaskID: t.ID, ProjectedEnd: projectedEnd, Deadline: *t.Deadline}
			result.Risks = append(result.Risks, risk)
			e.observer.DeadlineRisk(risk)
			logger.Warn("⚠️ Task might miss its deadline.",
				"task", t.ID,
				"projected_end", projectedEnd,
				"deadline", *t.Deadline,
			)
		}

		started := e.clock
		t.StartedAt = &started
		t.Status = task.StatusRunning

		e.clock = projectedEnd
		finished := e.clock
		t.FinishedAt = &finished
		t.Status = task.StatusCompleted

		e.reg.Complete(t.ID)
		result.Scheduled = append(result.Scheduled, t)
		e.observer.TaskScheduled(t)
		logger.Debug("Task executed.", "task", t.ID, "started_at", started, "finished_at", finished)

		for _, next := range e.reg.Ready() {
			if _, seen := enqueued[next.ID]; seen {
				continue
			}
			candidates.push(next)
			enqueued[next.ID] = struct{}{}
		}
	}

	if e.reg.Len() > 0 {
		result.Stalled = true
		result.Unscheduled = e.reg.Remaining()
		ids := make([]string, 0, len(result.Unscheduled))
		for _, t := range result.Unscheduled {
			ids = append(ids, t.ID)
		}
		logger.Warn("Scheduling stalled; some dependencies can never be satisfied.", "unscheduled", ids)
	}

	summary := metrics.Compute(result.Scheduled)
	e.observer.RunCompleted(result, summary)

	logger.Info("🏁 Scheduling pass finished.",
		"run_id", result.RunID,
		"scheduled", len(result.Scheduled),
		"unscheduled", len(result.Unscheduled),
		"stalled", result.Stalled,
		"makespan_minutes", summary.Makespan,
	)

	return result
}
