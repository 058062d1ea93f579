package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskmill/taskmill/internal/task"
)

func candidate(id string, priority, duration int, deadline *time.Time) *task.Task {
	t := task.New(id, duration)
	t.Priority = priority
	t.Deadline = deadline
	return t
}

func TestLess(t *testing.T) {
	noon := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	one := noon.Add(time.Hour)

	testCases := []struct {
		name     string
		a, b     *task.Task
		expected bool
	}{
		{
			name:     "higher priority wins",
			a:        candidate("a", 8, 100, nil),
			b:        candidate("b", 3, 5, &noon),
			expected: true,
		},
		{
			name:     "lower priority loses regardless of deadline",
			a:        candidate("a", 3, 5, &noon),
			b:        candidate("b", 8, 100, nil),
			expected: false,
		},
		{
			name:     "equal priority, both deadlines, earlier wins",
			a:        candidate("a", 5, 100, &noon),
			b:        candidate("b", 5, 5, &one),
			expected: true,
		},
		{
			name:     "equal priority, equal deadlines, neither wins",
			a:        candidate("a", 5, 10, &noon),
			b:        candidate("b", 5, 20, &noon),
			expected: false,
		},
		{
			name:     "equal priority, no deadlines, shorter duration wins",
			a:        candidate("a", 5, 10, nil),
			b:        candidate("b", 5, 20, nil),
			expected: true,
		},
		{
			name:     "equal priority, only one deadline, duration decides",
			a:        candidate("a", 5, 10, nil),
			b:        candidate("b", 5, 20, &noon),
			expected: true,
		},
		{
			name:     "equal priority, equal durations, tie",
			a:        candidate("a", 5, 10, nil),
			b:        candidate("b", 5, 10, nil),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Less(tc.a, tc.b))
		})
	}
}

// Less is intentionally not transitive when deadline and no-deadline tasks
// mix at one priority level. This pin documents the cycle so a future
// "simplification" cannot silently change dispatch behavior.
func TestLess_MixedDeadlineTripleComparesCyclically(t *testing.T) {
	ten := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	eleven := ten.Add(time.Hour)

	x := candidate("x", 5, 30, &ten)
	y := candidate("y", 5, 10, &eleven)
	z := candidate("z", 5, 20, nil)

	assert.True(t, Less(x, y), "x before y: both deadlines, x's is earlier")
	assert.True(t, Less(y, z), "y before z: one deadline, y is shorter")
	assert.True(t, Less(z, x), "z before x: one deadline, z is shorter")
}
