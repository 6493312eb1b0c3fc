package launcher

import (
	"errors"
	"fmt"
)

var (
	ErrInterpreterNotFound = errors.New("python 3 interpreter not found")
	ErrBackendNotFound     = errors.New("backend directory not found")
)

// ExitError carries the exit status the launcher should terminate with.
//
// Code is the failing command's exit status, or 1 when the command could not be started.
type ExitError struct {
	Step string
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("exit status %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d: %v", e.Step, e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the status carried by err, 0 for nil, and 1 for any other error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
