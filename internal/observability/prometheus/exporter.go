// Package prometheus adapts scheduling run events to Prometheus collectors.
package prometheus

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/taskmill/taskmill/internal/engine"
	"github.com/taskmill/taskmill/internal/metrics"
	"github.com/taskmill/taskmill/internal/task"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	// MakespanBuckets overrides the histogram buckets for run makespan,
	// in minutes.
	MakespanBuckets []float64
}

// Exporter implements engine.Observer over Prometheus collectors. A single
// exporter is shared by every run the process executes.
type Exporter struct {
	runsTotal           *prom.CounterVec
	tasksScheduledTotal prom.Counter
	deadlineRiskTotal   prom.Counter
	makespanMinutes     prom.Histogram
}

var _ engine.Observer = (*Exporter)(nil)

// NewExporter creates and registers the scheduling collectors.
func NewExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*Exporter, error) {
	if namespace == "" {
		namespace = "taskmill"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.MakespanBuckets
	if len(buckets) == 0 {
		buckets = []float64{15, 30, 60, 120, 240, 480, 960}
	}

	runsVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Total number of scheduling runs by outcome.",
	}, []string{"outcome"})
	scheduledCounter := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_scheduled_total",
		Help:      "Total number of tasks executed across all runs.",
	})
	riskCounter := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "deadline_risk_total",
		Help:      "Total number of tasks dispatched past their deadline.",
	})
	makespanHist := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "schedule_makespan_minutes",
		Help:      "Makespan of completed scheduling runs in minutes.",
		Buckets:   buckets,
	})

	var err error
	if runsVec, err = registerCollector(reg, runsVec); err != nil {
		return nil, err
	}
	if scheduledCounter, err = registerCollector(reg, scheduledCounter); err != nil {
		return nil, err
	}
	if riskCounter, err = registerCollector(reg, riskCounter); err != nil {
		return nil, err
	}
	if makespanHist, err = registerCollector(reg, makespanHist); err != nil {
		return nil, err
	}

	return &Exporter{
		runsTotal:           runsVec,
		tasksScheduledTotal: scheduledCounter,
		deadlineRiskTotal:   riskCounter,
		makespanMinutes:     makespanHist,
	}, nil
}

// TaskScheduled counts one executed task.
func (e *Exporter) TaskScheduled(_ *task.Task) {
	if e == nil {
		return
	}
	e.tasksScheduledTotal.Inc()
}

// DeadlineRisk counts one at-risk dispatch.
func (e *Exporter) DeadlineRisk(_ engine.DeadlineRisk) {
	if e == nil {
		return
	}
	e.deadlineRiskTotal.Inc()
}

// RunCompleted records the run's outcome and makespan.
func (e *Exporter) RunCompleted(result *engine.Result, summary metrics.Summary) {
	if e == nil {
		return
	}
	outcome := "completed"
	if result.Stalled {
		outcome = "stalled"
	}
	e.runsTotal.WithLabelValues(outcome).Inc()
	e.makespanMinutes.Observe(summary.Makespan)
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
