package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmill/taskmill/internal/task"
)

func TestAdd_StoresTasksAsGiven(t *testing.T) {
	// Content rules live at the plan boundary; the registry stages whatever
	// its caller hands it.
	r := New()
	raw := task.New("raw", 0)
	r.Add(raw)

	got, ok := r.Get("raw")
	require.True(t, ok)
	assert.Same(t, raw, got)
	assert.Equal(t, 1, r.Len())
}

func TestAdd_ReplaceKeepsScanPosition(t *testing.T) {
	r := New()
	r.Add(task.New("a", 10))
	r.Add(task.New("b", 10))
	r.Add(task.New("c", 10))

	// Redefining "a" must not move it behind "b" and "c".
	replacement := task.New("a", 99)
	r.Add(replacement)

	ready := r.Ready()
	require.Len(t, ready, 3)
	assert.Equal(t, "a", ready[0].ID)
	assert.Equal(t, 99, ready[0].Duration)
	assert.Equal(t, "b", ready[1].ID)
	assert.Equal(t, "c", ready[2].ID)
	assert.Equal(t, 3, r.Len())
}

func TestRemove(t *testing.T) {
	r := New()
	r.Add(task.New("a", 10))

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"))
	assert.Equal(t, 0, r.Len())

	_, ok := r.Get("a")
	assert.False(t, ok)
}

func TestReady_NoDependencies(t *testing.T) {
	r := New()
	r.Add(task.New("a", 10))
	r.Add(task.New("b", 20))

	ready := r.Ready()
	require.Len(t, ready, 2)
	assert.Equal(t, "a", ready[0].ID)
	assert.Equal(t, "b", ready[1].ID)
}

func TestReady_GatedByDependencies(t *testing.T) {
	r := New()
	a := task.New("a", 10)
	b := task.New("b", 20)
	b.DependsOn = []string{"a"}
	c := task.New("c", 5)
	c.DependsOn = []string{"a", "b"}
	r.Add(a)
	r.Add(b)
	r.Add(c)

	ready := r.Ready()
	require.Len(t, ready, 1)
	assert.Equal(t, "a", ready[0].ID)

	require.True(t, r.Complete("a"))
	ready = r.Ready()
	require.Len(t, ready, 1)
	assert.Equal(t, "b", ready[0].ID)

	require.True(t, r.Complete("b"))
	ready = r.Ready()
	require.Len(t, ready, 1)
	assert.Equal(t, "c", ready[0].ID)
}

func TestReady_SkipsNonPendingTasks(t *testing.T) {
	r := New()
	a := task.New("a", 10)
	r.Add(a)

	a.Status = task.StatusRunning
	assert.Empty(t, r.Ready())

	a.Status = task.StatusFailed
	assert.Empty(t, r.Ready())

	a.Status = task.StatusPending
	assert.Len(t, r.Ready(), 1)
}

func TestReady_RemovedDependencyNeverSatisfied(t *testing.T) {
	r := New()
	a := task.New("a", 10)
	b := task.New("b", 20)
	b.DependsOn = []string{"a"}
	r.Add(a)
	r.Add(b)

	// Removing a task is not completing it, so dependents stay blocked.
	require.True(t, r.Remove("a"))
	assert.Empty(t, r.Ready())
}

func TestReady_UnknownDependencyNeverSatisfied(t *testing.T) {
	r := New()
	b := task.New("b", 20)
	b.DependsOn = []string{"ghost"}
	r.Add(b)

	assert.Empty(t, r.Ready())
	assert.Len(t, r.Remaining(), 1)
}

func TestComplete(t *testing.T) {
	r := New()
	a := task.New("a", 10)
	r.Add(a)

	assert.False(t, r.Complete("unknown"))

	require.True(t, r.Complete("a"))
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, r.CompletedCount())

	completed := r.Completed()
	require.Len(t, completed, 1)
	assert.Same(t, a, completed[0])
}

func TestCompleted_PreservesCompletionOrder(t *testing.T) {
	r := New()
	r.Add(task.New("a", 10))
	r.Add(task.New("b", 10))
	r.Add(task.New("c", 10))

	require.True(t, r.Complete("b"))
	require.True(t, r.Complete("c"))
	require.True(t, r.Complete("a"))

	var ids []string
	for _, tk := range r.Completed() {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestRemaining_InsertionOrder(t *testing.T) {
	r := New()
	r.Add(task.New("c", 10))
	r.Add(task.New("a", 10))
	r.Add(task.New("b", 10))
	require.True(t, r.Complete("a"))

	var ids []string
	for _, tk := range r.Remaining() {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"c", "b"}, ids)
}
