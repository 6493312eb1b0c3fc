package main

import (
	"context"

	"github.com/desertthunder/ytmap/internal/launcher"
	"github.com/urfave/cli/v3"
)

// Start bootstraps the Python backend and runs its server until it exits.
//
// The returned error carries the exit status of the failing step; see [launcher.ExitCode].
func (r *Runner) Start(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	lc := config.Launcher
	if dir := cmd.String("backend"); dir != "" {
		lc.BackendDir = dir
	}

	launcherConfig, err := launcher.ConfigFrom(lc)
	if err != nil {
		return err
	}

	l := launcher.New(launcherConfig, r.logger, r.launcherOpts...)
	if cmd.Bool("dry-run") {
		return l.DryRun(r.output)
	}
	return l.Run(ctx)
}
