package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/taskmill/taskmill/internal/plan"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPath  string `env:"TASKMILL_PLAN"`       // .hcl file or directory
	StartTime string `env:"TASKMILL_START_TIME"` // overrides the plan's start_time

	Output    string `env:"TASKMILL_OUTPUT" envDefault:"text"`
	LogFormat string `env:"TASKMILL_LOG_FORMAT" envDefault:"json"`
	LogLevel  string `env:"TASKMILL_LOG_LEVEL" envDefault:"info"`

	Serve      bool   `env:"TASKMILL_SERVE"`
	ListenAddr string `env:"TASKMILL_LISTEN" envDefault:":8080"`
}

// ConfigFromEnv builds a Config from TASKMILL_* environment variables. The
// result carries the process-level defaults that CLI flags may override.
func ConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment configuration: %w", err)
	}
	return &cfg, nil
}

// NewConfig validates a populated Config and returns it. Exactly one mode is
// in effect: the API server when Serve is set, otherwise a single scheduling
// pass over PlanPath.
func NewConfig(cfg Config) (*Config, error) {
	if !cfg.Serve && cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.Serve && cfg.ListenAddr == "" {
		return nil, errors.New("ListenAddr is a required configuration field in serve mode")
	}
	if cfg.Output != "" && cfg.Output != "text" && cfg.Output != "json" {
		return nil, fmt.Errorf("invalid output format %q: must be 'text' or 'json'", cfg.Output)
	}
	if cfg.StartTime != "" {
		if _, err := plan.ParseTimestamp(cfg.StartTime); err != nil {
			return nil, fmt.Errorf("invalid start time: %w", err)
		}
	}

	return &cfg, nil
}
