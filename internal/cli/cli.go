package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/taskmill/taskmill/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// TASKMILL_* environment variables seed the flag defaults, so the command
// line only has to name what differs from the environment.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	envCfg, err := app.ConfigFromEnv()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	flagSet := flag.NewFlagSet("taskmill", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Taskmill - A deterministic, deadline-aware task scheduler.

Usage:
  taskmill [options] [PLAN_PATH]

Arguments:
  PLAN_PATH
    Path to a single .hcl plan file or a directory containing .hcl plan files.

Options:
`)
		flagSet.PrintDefaults()
	}

	planFlag := flagSet.String("plan", envCfg.PlanPath, "Path to the plan file or directory.")
	pFlag := flagSet.String("p", "", "Path to the plan file or directory (shorthand).")
	startTimeFlag := flagSet.String("start-time", envCfg.StartTime, "Schedule start time. Overrides the plan's own start_time.")
	outputFlag := flagSet.String("output", envCfg.Output, "Report format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", envCfg.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envCfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	serveFlag := flagSet.Bool("serve", envCfg.Serve, "Run the scheduling API server instead of a single pass.")
	listenFlag := flagSet.String("listen", envCfg.ListenAddr, "Address for the API server in serve mode.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	// An explicitly passed flag or positional path wins over the
	// environment seed.
	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	path := ""
	switch {
	case set["plan"]:
		path = *planFlag
	case set["p"]:
		path = *pFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	default:
		path = envCfg.PlanPath
	}
	slog.Debug("Plan path determined.", "path", path)

	if path == "" && !*serveFlag {
		slog.Debug("No plan path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	outputFormat := strings.ToLower(*outputFlag)
	if outputFormat != "text" && outputFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'text' or 'json'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		PlanPath:   path,
		StartTime:  *startTimeFlag,
		Output:     outputFormat,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		Serve:      *serveFlag,
		ListenAddr: *listenFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
