// Package task defines the unit of schedulable work and its lifecycle.
package task

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	// StatusPending indicates the task has been registered but not yet scheduled.
	StatusPending Status = "pending"
	// StatusRunning indicates the task currently occupies the execution slot.
	StatusRunning Status = "running"
	// StatusCompleted indicates the task finished execution.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the task was abandoned without completing.
	StatusFailed Status = "failed"
)

// Priority bounds. Tasks outside this range are rejected at validation time.
const (
	MinPriority = 1
	MaxPriority = 10

	// DefaultPriority is assigned when a task definition omits priority.
	DefaultPriority = 1
)

// Task is a single unit of work with a fixed duration, an urgency ranking,
// and an optional set of prerequisite tasks that must complete before it
// becomes eligible to run.
type Task struct {
	// ID uniquely identifies the task within one run.
	ID string `json:"id"`

	// Name is an optional human-readable label. It never participates in
	// scheduling decisions.
	Name string `json:"name,omitempty"`

	// Duration is the task's execution time in whole minutes. Must be positive.
	Duration int `json:"duration_minutes"`

	// Priority ranks the task's urgency from MinPriority to MaxPriority,
	// higher meaning more urgent.
	Priority int `json:"priority"`

	// DependsOn lists the IDs of tasks that must be completed before this
	// task becomes ready.
	DependsOn []string `json:"depends_on,omitempty"`

	// Deadline is the wall-clock time the task should finish by. Nil means
	// the task has no deadline and can never be tardy.
	Deadline *time.Time `json:"deadline,omitempty"`

	// Status is the task's current lifecycle state.
	Status Status `json:"status"`

	// StartedAt is set when the task is dispatched onto the execution slot.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt is set when the task completes.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// New returns a pending task with the default priority. Optional fields are
// set by the caller before the task is registered.
func New(id string, durationMinutes int) *Task {
	return &Task{
		ID:       id,
		Duration: durationMinutes,
		Priority: DefaultPriority,
		Status:   StatusPending,
	}
}

// Validate reports whether the task's static fields form a well-defined unit
// of work. It does not inspect dependency targets; resolvability is a
// property of the whole plan, not of one task.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id must not be empty")
	}
	if t.Duration <= 0 {
		return fmt.Errorf("task %q: duration must be a positive number of minutes, got %d", t.ID, t.Duration)
	}
	if t.Priority < MinPriority || t.Priority > MaxPriority {
		return fmt.Errorf("task %q: priority must be between %d and %d, got %d", t.ID, MinPriority, MaxPriority, t.Priority)
	}
	for _, dep := range t.DependsOn {
		if dep == "" {
			return fmt.Errorf("task %q: dependency id must not be empty", t.ID)
		}
		if dep == t.ID {
			return fmt.Errorf("task %q: task cannot depend on itself", t.ID)
		}
	}
	return nil
}

// Span returns the task's duration as a time.Duration.
func (t *Task) Span() time.Duration {
	return time.Duration(t.Duration) * time.Minute
}

// HasDeadline reports whether the task carries a deadline.
func (t *Task) HasDeadline() bool {
	return t.Deadline != nil
}

// Tardiness returns how far past its deadline the task finished. It is zero
// for tasks without a deadline, tasks that finished on time, and tasks that
// have not finished.
func (t *Task) Tardiness() time.Duration {
	if t.Deadline == nil || t.FinishedAt == nil {
		return 0
	}
	if late := t.FinishedAt.Sub(*t.Deadline); late > 0 {
		return late
	}
	return 0
}

// Clone returns a deep copy of the task. Mutating the copy, including its
// dependency list and timestamps, never affects the original.
func (t *Task) Clone() *Task {
	c := *t
	if t.DependsOn != nil {
		c.DependsOn = append([]string(nil), t.DependsOn...)
	}
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.StartedAt != nil {
		s := *t.StartedAt
		c.StartedAt = &s
	}
	if t.FinishedAt != nil {
		f := *t.FinishedAt
		c.FinishedAt = &f
	}
	return &c
}
