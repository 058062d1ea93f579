package hclplan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/taskmill/taskmill/internal/ctxlog"
	"github.com/taskmill/taskmill/internal/fsutil"
	"github.com/taskmill/taskmill/internal/plan"
)

// hclPlanFile represents the top-level structure of a plan file for decoding.
type hclPlanFile struct {
	Settings []*hclSettings `hcl:"plan,block"`
	Tasks    []*hclTask     `hcl:"task,block"`
}

// hclSettings represents a `plan` settings block.
type hclSettings struct {
	StartTime string `hcl:"start_time,optional"`
}

// hclTask represents a single `task` block. Duration stays an expression so
// both bare minute counts and duration strings decode.
type hclTask struct {
	ID        string         `hcl:"id,label"`
	Name      string         `hcl:"name,optional"`
	Duration  hcl.Expression `hcl:"duration"`
	Priority  int            `hcl:"priority,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Deadline  string         `hcl:"deadline,optional"`
}

// Load finds and parses every .hcl file under path, which may be a single
// file or a directory, and merges the results into one plan. The plan is
// structurally sound on return; semantic validation is the caller's step.
func Load(ctx context.Context, path string) (*plan.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plan.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find plan files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl plan files found in %s", path)
	}

	p := &plan.Plan{}
	var settingsFile string

	parser := hclparse.NewParser()
	for _, file := range files {
		parsed, err := parseFile(parser, file)
		if err != nil {
			return nil, err
		}

		for _, s := range parsed.Settings {
			if settingsFile != "" {
				return nil, fmt.Errorf("plan settings defined twice: %s and %s", settingsFile, file)
			}
			settingsFile = file
			if s.StartTime != "" {
				startAt, err := plan.ParseTimestamp(s.StartTime)
				if err != nil {
					return nil, fmt.Errorf("in %s: plan start_time: %w", file, err)
				}
				p.StartAt = &startAt
			}
		}

		for _, ht := range parsed.Tasks {
			def, err := translateTask(ht)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			p.Tasks = append(p.Tasks, def)
		}

		logger.Debug("Decoded plan file.", "path", file, "tasks_found", len(parsed.Tasks))
	}

	logger.Debug("Plan loaded.", "files", len(files), "tasks", len(p.Tasks))
	return p, nil
}

// parseFile parses and decodes a single HCL plan file.
func parseFile(parser *hclparse.Parser, filePath string) (*hclPlanFile, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", filePath, diags)
	}

	var parsed hclPlanFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode plan file %s: %w", filePath, diags)
	}

	return &parsed, nil
}

// translateTask converts a decoded task block into the agnostic plan model.
func translateTask(ht *hclTask) (*plan.Definition, error) {
	minutes, err := durationMinutes(ht.Duration)
	if err != nil {
		return nil, fmt.Errorf("task %q: duration: %w", ht.ID, err)
	}

	def := &plan.Definition{
		ID:        ht.ID,
		Name:      ht.Name,
		Duration:  minutes,
		Priority:  ht.Priority,
		DependsOn: ht.DependsOn,
	}
	if ht.Deadline != "" {
		deadline, err := plan.ParseTimestamp(ht.Deadline)
		if err != nil {
			return nil, fmt.Errorf("task %q: deadline: %w", ht.ID, err)
		}
		def.Deadline = &deadline
	}
	return def, nil
}

// durationMinutes evaluates a duration attribute. A bare number is taken as
// whole minutes; a string goes through time.ParseDuration and must come out
// to whole minutes.
func durationMinutes(expr hcl.Expression) (int, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}
	if val.IsNull() {
		return 0, errors.New("must not be null")
	}

	switch {
	case val.Type() == cty.Number:
		var minutes int
		if err := gocty.FromCtyValue(val, &minutes); err != nil {
			return 0, fmt.Errorf("must be a whole number of minutes: %w", err)
		}
		return minutes, nil
	case val.Type() == cty.String:
		d, err := time.ParseDuration(val.AsString())
		if err != nil {
			return 0, err
		}
		if d%time.Minute != 0 {
			return 0, fmt.Errorf("%q is not a whole number of minutes", val.AsString())
		}
		return int(d / time.Minute), nil
	default:
		return 0, fmt.Errorf("must be a number of minutes or a duration string, got %s", val.Type().FriendlyName())
	}
}
