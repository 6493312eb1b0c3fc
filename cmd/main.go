package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/ytmap/internal/launcher"
	"github.com/desertthunder/ytmap/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "ytmap",
		Usage:    "Launch and feed the YouTube Music Mapper",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadConfigOrDefault(defaultConfigPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", defaultConfigPath, "error", err)
		config = shared.DefaultConfig()
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: defaultConfigPath,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = newApp(runner).Run(ctx, os.Args)
	stop()
	runner.Close()

	var exitErr *launcher.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr), errors.Is(err, launcher.ErrInterpreterNotFound):
		os.Exit(launcher.ExitCode(err))
	case errors.Is(err, shared.ErrCancelled):
		logger.Warn("cancelled")
		os.Exit(1)
	default:
		logger.Fatalf("application error: %v", err)
	}
}
