package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/taskmill/taskmill/internal/app"
	"github.com/taskmill/taskmill/internal/cli"
	"github.com/taskmill/taskmill/internal/plan"
)

// main is the entrypoint for the taskmill application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// A .env file is optional and only seeds TASKMILL_* variables.
	_ = godotenv.Load()

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors, so we recover here and turn
	// the panic into a clean error for main to report. A plan that breaks a
	// content rule exits with the same code as any other bad input.
	defer func() {
		if r := recover(); r != nil {
			if vErr, ok := r.(*plan.ValidationError); ok {
				err = &cli.ExitError{Code: 2, Message: vErr.Error()}
				return
			}
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	taskmillApp := app.NewApp(outW, appConfig)
	return taskmillApp.Run(context.Background())
}
