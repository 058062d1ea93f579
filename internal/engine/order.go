package engine

import (
	"github.com/taskmill/taskmill/internal/task"
)

// Less reports whether a should be dispatched before b when both are ready
// at the same instant. The rules, in order:
//
//  1. Higher priority first.
//  2. Equal priority, both tasks carry deadlines: earlier deadline first.
//  3. Equal priority otherwise: shorter duration first.
//
// Rule 2 only applies when both deadlines are present, so Less is not a
// total order: at one priority level, a triple mixing deadline and
// no-deadline tasks can compare cyclically. The candidate pool keeps
// selection deterministic anyway by feeding tasks into the heap in a fixed
// order and breaking unresolved ties by arrival sequence.
func Less(a, b *task.Task) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Deadline != nil && b.Deadline != nil {
		return a.Deadline.Before(*b.Deadline)
	}
	return a.Duration < b.Duration
}
