package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taskmill/taskmill/internal/engine"
	"github.com/taskmill/taskmill/internal/plan"
	"github.com/taskmill/taskmill/internal/registry"
	"github.com/taskmill/taskmill/internal/report"
)

// scheduleRequest is the JSON body of POST /api/v1/schedule.
type scheduleRequest struct {
	StartTime string        `json:"start_time,omitempty"`
	Tasks     []taskRequest `json:"tasks"`
}

// taskRequest mirrors one task definition. Timestamps are strings in
// RFC 3339 or the compact "2006-01-02 15:04" form.
type taskRequest struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	Duration  int      `json:"duration_minutes"`
	Priority  int      `json:"priority,omitempty"`
	DependsOn []string `json:"depends_on,omitempty"`
	Deadline  string   `json:"deadline,omitempty"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	p, err := toPlan(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := p.Validate(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// A fresh registry and engine per request keep concurrent runs isolated.
	reg := registry.New()
	for _, t := range p.Materialize() {
		reg.Add(t)
	}

	cfg := engine.Config{Observer: s.observer}
	if p.StartAt != nil {
		cfg.StartAt = *p.StartAt
	}
	result := engine.New(reg, cfg).Schedule(r.Context())
	doc := report.NewRunDocument(result)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		s.logger.Error("Failed to encode run document.", "run_id", doc.RunID, "error", err)
	}
}

// toPlan converts the request body into the agnostic plan model, parsing
// its timestamps.
func toPlan(req *scheduleRequest) (*plan.Plan, error) {
	p := &plan.Plan{}

	if req.StartTime != "" {
		startAt, err := plan.ParseTimestamp(req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("start_time: %w", err)
		}
		p.StartAt = &startAt
	}

	for _, tr := range req.Tasks {
		def := &plan.Definition{
			ID:        tr.ID,
			Name:      tr.Name,
			Duration:  tr.Duration,
			Priority:  tr.Priority,
			DependsOn: tr.DependsOn,
		}
		if tr.Deadline != "" {
			deadline, err := plan.ParseTimestamp(tr.Deadline)
			if err != nil {
				return nil, fmt.Errorf("task %q: deadline: %w", tr.ID, err)
			}
			def.Deadline = &deadline
		}
		p.Tasks = append(p.Tasks, def)
	}

	return p, nil
}
