// Package report renders the outcome of a scheduling run for people and
// machines. The same RunDocument backs the CLI's text output, its JSON
// output, and the HTTP API's response body.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskmill/taskmill/internal/engine"
	"github.com/taskmill/taskmill/internal/metrics"
	"github.com/taskmill/taskmill/internal/plan"
	"github.com/taskmill/taskmill/internal/task"
)

// RunDocument is the complete, serializable account of one run.
type RunDocument struct {
	RunID       string                `json:"run_id"`
	StartedAt   time.Time             `json:"started_at"`
	Stalled     bool                  `json:"stalled"`
	Scheduled   []*task.Task          `json:"scheduled"`
	Unscheduled []*task.Task          `json:"unscheduled,omitempty"`
	Risks       []engine.DeadlineRisk `json:"risks,omitempty"`
	Metrics     metrics.Summary       `json:"metrics"`
}

// NewRunDocument derives the document for a finished pass, computing its
// metrics summary along the way.
func NewRunDocument(result *engine.Result) *RunDocument {
	return &RunDocument{
		RunID:       result.RunID,
		StartedAt:   result.StartedAt,
		Stalled:     result.Stalled,
		Scheduled:   result.Scheduled,
		Unscheduled: result.Unscheduled,
		Risks:       result.Risks,
		Metrics:     metrics.Compute(result.Scheduled),
	}
}

// Writer renders run documents onto an output stream.
type Writer struct {
	out io.Writer
}

// NewWriter creates a report writer over out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteJSON renders the document as indented JSON.
func (w *Writer) WriteJSON(doc *RunDocument) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteText renders the human-readable report: the schedule table, any
// deadline risks, the unscheduled section when the run stalled, and the
// metrics block.
func (w *Writer) WriteText(doc *RunDocument) error {
	var b strings.Builder

	b.WriteString("\n" + banner("📅 FINAL SCHEDULE", 80) + "\n")
	fmt.Fprintf(&b, "%-10s %-20s %-20s %-10s %-12s\n", "Task", "Start Time", "End Time", "Duration", "Status")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for _, t := range doc.Scheduled {
		fmt.Fprintf(&b, "%-10s %-20s %-20s %-10d %-12s\n",
			t.ID, stamp(t.StartedAt), stamp(t.FinishedAt), t.Duration, t.Status)
	}

	if len(doc.Risks) > 0 {
		b.WriteString("\n" + banner("⚠️ DEADLINE RISKS", 80) + "\n")
		for _, r := range doc.Risks {
			fmt.Fprintf(&b, "Task %s finishes at %s, past its deadline %s\n",
				r.TaskID, r.ProjectedEnd.Format(plan.TimeLayout), r.Deadline.Format(plan.TimeLayout))
		}
	}

	if doc.Stalled {
		b.WriteString("\n" + banner("🚫 UNSCHEDULED TASKS", 80) + "\n")
		for _, t := range doc.Unscheduled {
			fmt.Fprintf(&b, "%-10s waiting on: %s\n", t.ID, strings.Join(t.DependsOn, ", "))
		}
	}

	b.WriteString("\n" + banner("📊 PERFORMANCE METRICS", 50) + "\n")
	fmt.Fprintf(&b, "• Total Tasks: %d\n", doc.Metrics.TotalTasks)
	fmt.Fprintf(&b, "• Completed On Time: %d\n", doc.Metrics.CompletedOnTime)
	fmt.Fprintf(&b, "• On Time Percentage: %.2f\n", doc.Metrics.OnTimePercentage)
	fmt.Fprintf(&b, "• Average Tardiness: %.2f\n", doc.Metrics.AverageTardiness)
	fmt.Fprintf(&b, "• Total Completion Time: %d\n", doc.Metrics.TotalCompletionTime)
	fmt.Fprintf(&b, "• Makespan: %.2f\n", doc.Metrics.Makespan)

	_, err := io.WriteString(w.out, b.String())
	return err
}

// stamp formats an optional timestamp for the schedule table.
func stamp(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(plan.TimeLayout)
}

// banner centers a title in a line of equals signs.
func banner(title string, width int) string {
	n := width - utf8.RuneCountInString(title)
	if n <= 0 {
		return title
	}
	left := n / 2
	return strings.Repeat("=", left) + title + strings.Repeat("=", n-left)
}
