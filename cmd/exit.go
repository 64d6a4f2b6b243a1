package cmd

import "errors"

// ExitAborted is returned when a recipe refuses to start: bad arguments,
// missing credentials or no connection to AWS.
const ExitAborted = 42

// ExitError carries a process exit code alongside the error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func aborted(err error) error {
	return &ExitError{Code: ExitAborted, Err: err}
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}
