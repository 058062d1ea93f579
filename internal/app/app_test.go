package app

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmill/taskmill/internal/report"
	"github.com/taskmill/taskmill/internal/task"
)

const samplePlanHCL = `
plan {
  start_time = "2025-11-03 09:00"
}

task "ingest" {
  duration = 30
  priority = 5
}

task "transform" {
  duration   = 45
  priority   = 8
  depends_on = ["ingest"]
}

task "publish" {
  duration = 20
  priority = 3
}
`

func writePlanFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestAppRun_RendersTextReport(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writePlanFile(t, samplePlanHCL)
	testApp, out := SetupAppTest(t, &Config{PlanPath: path, Output: "text", LogFormat: "text"})

	// --- Act ---
	err := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "📅 FINAL SCHEDULE")
	assert.Contains(t, got, "📊 PERFORMANCE METRICS")
	assert.Contains(t, got, "2025-11-03 09:00")
	assert.Contains(t, got, "2025-11-03 10:35")
	assert.Contains(t, got, "• Total Tasks: 3")
	assert.Contains(t, got, "• Makespan: 95.00")

	// The dependency gate holds transform back until ingest finishes, and
	// publish runs last on its low priority.
	ingestAt := strings.Index(got, "ingest")
	transformAt := strings.Index(got, "transform")
	publishAt := strings.Index(got, "publish")
	require.NotEqual(t, -1, ingestAt)
	assert.Less(t, ingestAt, transformAt)
	assert.Less(t, transformAt, publishAt)
}

func TestAppRun_JSONReportIsParseable(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Error-level logging keeps the buffer free of log lines, so the whole
	// output is one JSON document.
	path := writePlanFile(t, samplePlanHCL)
	cfg, err := NewConfig(Config{PlanPath: path, Output: "json", LogFormat: "text", LogLevel: "error"})
	require.NoError(t, err)

	out := &SafeBuffer{}
	testApp := NewApp(out, cfg)

	// --- Act ---
	require.NoError(t, testApp.Run(context.Background()))

	// --- Assert ---
	var doc report.RunDocument
	require.NoError(t, json.Unmarshal([]byte(out.String()), &doc))

	assert.NotEmpty(t, doc.RunID)
	assert.False(t, doc.Stalled)
	assert.Equal(t, "2025-11-03T09:00:00Z", doc.StartedAt.Format(time.RFC3339))

	require.Len(t, doc.Scheduled, 3)
	assert.Equal(t, "ingest", doc.Scheduled[0].ID)
	assert.Equal(t, "transform", doc.Scheduled[1].ID)
	assert.Equal(t, "publish", doc.Scheduled[2].ID)
	assert.Equal(t, task.StatusCompleted, doc.Scheduled[2].Status)

	assert.Equal(t, 3, doc.Metrics.TotalTasks)
	assert.InDelta(t, 95.0, doc.Metrics.Makespan, 1e-9)
}

func TestAppRun_PrioritizedSamplePlan(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Five tasks exercising every dispatch rule at once: T5 preempts on
	// priority, T2 and T4 wait on their chains, and low-priority T3 slides
	// past its deadline.
	path := writePlanFile(t, `
plan {
  start_time = "2025-11-03 09:00"
}

task "T1" {
  duration = 30
  priority = 5
  deadline = "2025-11-03 11:00"
}

task "T2" {
  duration   = 45
  priority   = 8
  depends_on = ["T1"]
  deadline   = "2025-11-03 12:00"
}

task "T3" {
  duration = 20
  priority = 3
  deadline = "2025-11-03 10:00"
}

task "T4" {
  duration   = 60
  priority   = 6
  depends_on = ["T2"]
  deadline   = "2025-11-03 13:00"
}

task "T5" {
  duration = 15
  priority = 9
  deadline = "2025-11-03 10:00"
}
`)
	cfg, err := NewConfig(Config{PlanPath: path, Output: "json", LogFormat: "text", LogLevel: "error"})
	require.NoError(t, err)
	out := &SafeBuffer{}

	// --- Act ---
	require.NoError(t, NewApp(out, cfg).Run(context.Background()))

	// --- Assert ---
	var doc report.RunDocument
	require.NoError(t, json.Unmarshal([]byte(out.String()), &doc))

	gotOrder := make([]string, 0, len(doc.Scheduled))
	for _, tk := range doc.Scheduled {
		gotOrder = append(gotOrder, tk.ID)
	}
	assert.Equal(t, []string{"T5", "T1", "T2", "T4", "T3"}, gotOrder)

	require.Len(t, doc.Risks, 1)
	assert.Equal(t, "T3", doc.Risks[0].TaskID)

	assert.Equal(t, 5, doc.Metrics.TotalTasks)
	assert.Equal(t, 4, doc.Metrics.CompletedOnTime)
	assert.InDelta(t, 80.0, doc.Metrics.OnTimePercentage, 1e-9)
	assert.InDelta(t, 22.0, doc.Metrics.AverageTardiness, 1e-9)
	assert.Equal(t, 170, doc.Metrics.TotalCompletionTime)
	assert.InDelta(t, 170.0, doc.Metrics.Makespan, 1e-9)
}

func TestAppRun_StalledPlanStillExitsClean(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writePlanFile(t, `
task "orphan" {
  duration   = 10
  depends_on = ["ghost"]
}
`)
	testApp, out := SetupAppTest(t, &Config{PlanPath: path, Output: "text", LogFormat: "text"})

	// --- Act ---
	err := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err, "a stalled pass is a reported outcome, not a failure")
	got := out.String()
	assert.Contains(t, got, "🚫 UNSCHEDULED TASKS")
	assert.Contains(t, got, "waiting on: ghost")
}

func TestAppRun_StartTimeOverridesPlan(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writePlanFile(t, samplePlanHCL)
	testApp, out := SetupAppTest(t, &Config{
		PlanPath:  path,
		StartTime: "2025-12-01 08:00",
		Output:    "text",
		LogFormat: "text",
	})

	// --- Act ---
	err := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	got := out.String()
	assert.Contains(t, got, "2025-12-01 08:00")
	assert.Contains(t, got, "2025-12-01 09:35")
}

func TestNewApp_PanicsOnMalformedPlan(t *testing.T) {
	t.Parallel()

	path := writePlanFile(t, `
task "broken" {
  duration = 10
`)

	require.Panics(t, func() {
		NewApp(io.Discard, &Config{PlanPath: path, LogLevel: "error"})
	})
}

func TestNewApp_PanicsOnInvalidPlan(t *testing.T) {
	t.Parallel()

	path := writePlanFile(t, `
task "negative" {
  duration = -5
}
`)

	require.Panics(t, func() {
		NewApp(io.Discard, &Config{PlanPath: path, LogLevel: "error"})
	})
}

func TestNewApp_ServeModeSkipsPlanLoading(t *testing.T) {
	t.Parallel()

	testApp := NewApp(io.Discard, &Config{Serve: true, ListenAddr: ":0", LogLevel: "error"})

	assert.Nil(t, testApp.Plan())
}
