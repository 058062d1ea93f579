package engine

import (
	"time"

	"github.com/taskmill/taskmill/internal/metrics"
	"github.com/taskmill/taskmill/internal/task"
)

// DeadlineRisk records that a task was dispatched even though its projected
// finish time fell past its deadline. Risks are informational; the task
// still runs.
type DeadlineRisk struct {
	TaskID       string    `json:"task_id"`
	ProjectedEnd time.Time `json:"projected_end"`
	Deadline     time.Time `json:"deadline"`
}

// Result is the complete outcome of one scheduling pass.
type Result struct {
	// RunID uniquely identifies this pass.
	RunID string `json:"run_id"`

	// StartedAt is the logical clock value the pass began with.
	StartedAt time.Time `json:"started_at"`

	// Scheduled lists the executed tasks in execution order, with their
	// start and finish times stamped.
	Scheduled []*task.Task `json:"scheduled"`

	// Unscheduled lists, in submission order, the tasks left over when the
	// pass stalled. Empty on a clean run.
	Unscheduled []*task.Task `json:"unscheduled,omitempty"`

	// Stalled is true when at least one task could never become ready.
	Stalled bool `json:"stalled"`

	// Risks lists every deadline risk raised during the pass, in dispatch
	// order.
	Risks []DeadlineRisk `json:"risks,omitempty"`
}

// Observer receives scheduling events as they happen. Callbacks run
// synchronously inside the scheduling pass and must return promptly.
type Observer interface {
	// TaskScheduled is called after a task's simulated execution completes.
	TaskScheduled(t *task.Task)
	// DeadlineRisk is called when a task is dispatched with a projected
	// finish past its deadline.
	DeadlineRisk(r DeadlineRisk)
	// RunCompleted is called once, after the pass has finished and its
	// summary has been computed.
	RunCompleted(result *Result, summary metrics.Summary)
}

// NopObserver ignores every event. It is the default when no observer is
// configured.
type NopObserver struct{}

func (o *NopObserver) TaskScheduled(*task.Task)              {}
func (o *NopObserver) DeadlineRisk(DeadlineRisk)             {}
func (o *NopObserver) RunCompleted(*Result, metrics.Summary) {}

var _ Observer = (*NopObserver)(nil)
