// Package metrics derives performance figures from a finished scheduling pass.
package metrics

import (
	"github.com/taskmill/taskmill/internal/task"
)

// Summary aggregates how well a scheduling pass performed against its
// deadlines. All durations are expressed in minutes.
type Summary struct {
	// TotalTasks is the number of tasks that were executed.
	TotalTasks int `json:"total_tasks"`

	// CompletedOnTime counts tasks that carried a deadline and finished at
	// or before it. Tasks without deadlines are never counted here.
	CompletedOnTime int `json:"completed_on_time"`

	// OnTimePercentage is CompletedOnTime over TotalTasks. Tasks without
	// deadlines stay in the denominator, so a schedule of deadline-free
	// tasks scores zero rather than one hundred.
	OnTimePercentage float64 `json:"on_time_percentage"`

	// AverageTardiness is the total minutes of lateness spread over every
	// executed task, not just the late or deadline-bearing ones.
	AverageTardiness float64 `json:"average_tardiness"`

	// TotalCompletionTime is the sum of all executed task durations.
	TotalCompletionTime int `json:"total_completion_time"`

	// Makespan is the span in minutes from the first task's start to the
	// last task's finish.
	Makespan float64 `json:"makespan"`
}

// Compute derives a Summary from the executed tasks of one pass, in
// execution order. It reads only start and finish stamps, so calling it
// again on the same slice yields the same Summary. An empty slice yields
// the zero Summary.
func Compute(scheduled []*task.Task) Summary {
	var s Summary
	s.TotalTasks = len(scheduled)
	if s.TotalTasks == 0 {
		return s
	}

	var totalTardiness float64
	for _, t := range scheduled {
		if t.HasDeadline() && t.FinishedAt != nil && !t.FinishedAt.After(*t.Deadline) {
			s.CompletedOnTime++
		}
		totalTardiness += t.Tardiness().Minutes()
		s.TotalCompletionTime += t.Duration
	}

	s.OnTimePercentage = float64(s.CompletedOnTime) / float64(s.TotalTasks) * 100
	s.AverageTardiness = totalTardiness / float64(s.TotalTasks)

	first := scheduled[0]
	last := scheduled[len(scheduled)-1]
	if first.StartedAt != nil && last.FinishedAt != nil {
		s.Makespan = last.FinishedAt.Sub(*first.StartedAt).Minutes()
	}

	return s
}
