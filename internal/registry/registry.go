package registry

import (
	"github.com/taskmill/taskmill/internal/task"
)

// Registry tracks the live and completed tasks of a single scheduling run.
// It is not safe for concurrent use; each run owns its own instance.
type Registry struct {
	// live maps task id to the task for every submitted, not-yet-completed task.
	live map[string]*task.Task
	// order records live task ids in insertion order so that scans are
	// deterministic. Replacing a task keeps its original position.
	order []string
	// completed holds finished tasks in completion order.
	completed []*task.Task
	// done indexes completed task ids for dependency checks.
	done map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		live: make(map[string]*task.Task),
		done: make(map[string]struct{}),
	}
}

// Add inserts the task into the registry. Submitting a task whose id is
// already present replaces the earlier definition while keeping its position
// in the scan order. Content rules are the plan boundary's concern; the
// registry stages whatever its caller hands it.
func (r *Registry) Add(t *task.Task) {
	if _, exists := r.live[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.live[t.ID] = t
}

// Remove deletes a live task and reports whether it was present. Tasks that
// depend on the removed id are left untouched; they will never become ready.
func (r *Registry) Remove(id string) bool {
	if _, exists := r.live[id]; !exists {
		return false
	}
	delete(r.live, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the live task with the given id.
func (r *Registry) Get(id string) (*task.Task, bool) {
	t, ok := r.live[id]
	return t, ok
}

// Ready returns, in insertion order, every pending task whose dependencies
// have all completed. A task with no dependencies is ready as soon as it is
// added.
func (r *Registry) Ready() []*task.Task {
	var ready []*task.Task
	for _, id := range r.order {
		t := r.live[id]
		if t.Status != task.StatusPending {
			continue
		}
		if r.depsMet(t) {
			ready = append(ready, t)
		}
	}
	return ready
}

func (r *Registry) depsMet(t *task.Task) bool {
	for _, dep := range t.DependsOn {
		if _, ok := r.done[dep]; !ok {
			return false
		}
	}
	return true
}

// Complete moves a live task into the completed set, releasing its id to any
// tasks that depend on it. It reports whether the id was live. The caller is
// responsible for having set the task's status and timestamps first.
func (r *Registry) Complete(id string) bool {
	t, ok := r.live[id]
	if !ok {
		return false
	}
	r.Remove(id)
	r.completed = append(r.completed, t)
	r.done[id] = struct{}{}
	return true
}

// Remaining returns the live tasks in insertion order. After a run finishes
// these are exactly the tasks that could not be scheduled.
func (r *Registry) Remaining() []*task.Task {
	out := make([]*task.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.live[id])
	}
	return out
}

// Completed returns the finished tasks in completion order.
func (r *Registry) Completed() []*task.Task {
	return r.completed
}

// Len returns the number of live tasks.
func (r *Registry) Len() int {
	return len(r.live)
}

// CompletedCount returns the number of finished tasks.
func (r *Registry) CompletedCount() int {
	return len(r.completed)
}
