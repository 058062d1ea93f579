// Package plan holds the format-agnostic definition of a scheduling run.
//
// Loaders (HCL files, the HTTP API) produce a Plan; the plan validates
// itself at the boundary and materializes the task set the core operates
// on. The core never re-validates.
package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskmill/taskmill/internal/ctxlog"
	"github.com/taskmill/taskmill/internal/task"
)

// TimeLayout is the compact timestamp form accepted in plan files and API
// requests alongside RFC 3339.
const TimeLayout = "2006-01-02 15:04"

// ParseTimestamp parses a plan timestamp, accepting RFC 3339 or the compact
// TimeLayout form. Compact timestamps carry no zone and are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: want RFC 3339 or %q", s, TimeLayout)
	}
	return ts, nil
}

// Definition describes one task as written by the user, before any
// scheduling state attaches to it.
type Definition struct {
	ID        string
	Name      string
	Duration  int
	Priority  int
	DependsOn []string
	Deadline  *time.Time
}

// Plan is a complete run definition: an optional clock seed and the task
// set. Tasks keep the order they were defined in.
type Plan struct {
	// StartAt pins the simulation clock. Nil means the run starts at the
	// current wall-clock time.
	StartAt *time.Time

	Tasks []*Definition
}

// ValidationError aggregates every content rule a plan breaks, one problem
// per offending definition field. Boundaries use the type to tell bad input
// apart from their own failures.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "plan validation failed:\n- " + strings.Join(e.Problems, "\n- ")
}

// Validate checks every definition and reports all offenders in a single
// *ValidationError. Duplicate ids are not an error; the later definition
// replaces the earlier one and a warning is logged. Dependencies on unknown
// ids also pass validation: such tasks simply never run, and the run report
// lists them as unscheduled.
func (p *Plan) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var errs []string
	seen := make(map[string]struct{})
	for i, d := range p.Tasks {
		if d.ID == "" {
			errs = append(errs, fmt.Sprintf("task at index %d: id must not be empty", i))
			continue
		}
		if _, dup := seen[d.ID]; dup {
			logger.Warn("Duplicate task id in plan; the later definition wins.", "task", d.ID)
		}
		seen[d.ID] = struct{}{}

		if d.Duration <= 0 {
			errs = append(errs, fmt.Sprintf("task %q: duration must be a positive number of minutes, got %d", d.ID, d.Duration))
		}
		// Zero priority means "not set" and becomes DefaultPriority later.
		if d.Priority < 0 || d.Priority > task.MaxPriority {
			errs = append(errs, fmt.Sprintf("task %q: priority must be between %d and %d, got %d", d.ID, task.MinPriority, task.MaxPriority, d.Priority))
		}
		for _, dep := range d.DependsOn {
			if dep == "" {
				errs = append(errs, fmt.Sprintf("task %q: dependency id must not be empty", d.ID))
			}
			if dep == d.ID {
				errs = append(errs, fmt.Sprintf("task %q: task cannot depend on itself", d.ID))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

// Materialize builds fresh tasks from the definitions, in definition order.
// Each call returns independent copies, so one plan can seed any number of
// isolated runs.
func (p *Plan) Materialize() []*task.Task {
	tasks := make([]*task.Task, 0, len(p.Tasks))
	for _, d := range p.Tasks {
		t := task.New(d.ID, d.Duration)
		t.Name = d.Name
		if d.Priority != 0 {
			t.Priority = d.Priority
		}
		if len(d.DependsOn) > 0 {
			t.DependsOn = append([]string(nil), d.DependsOn...)
		}
		if d.Deadline != nil {
			deadline := *d.Deadline
			t.Deadline = &deadline
		}
		tasks = append(tasks, t)
	}
	return tasks
}
