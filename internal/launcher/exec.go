package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Command is a single process invocation made by the launcher.
type Command struct {
	Dir    string
	Path   string
	Args   []string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Executor runs a [Command] to completion.
//
// Implementations return an [*ExitError] when the process exits non-zero or cannot be started.
type Executor interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecFunc adapts a function to the [Executor] interface.
type ExecFunc func(ctx context.Context, cmd Command) error

func (f ExecFunc) Run(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// ProcessExecutor runs commands as child processes.
//
// Cancelling the context interrupts the child and kills it if it has not exited after WaitDelay.
type ProcessExecutor struct {
	WaitDelay time.Duration
}

func (p ProcessExecutor) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.Cancel = func() error { return interrupt(cmd.Process) }
	cmd.WaitDelay = p.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 5 * time.Second
	}

	if err := cmd.Start(); err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("failed to start %s: %w", c.Path, err)}
	}

	err := cmd.Wait()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return &ExitError{Code: code, Err: err}
	}
	return &ExitError{Code: 1, Err: err}
}

func interrupt(p *os.Process) error {
	if err := p.Signal(os.Interrupt); err != nil {
		return p.Kill()
	}
	return nil
}
