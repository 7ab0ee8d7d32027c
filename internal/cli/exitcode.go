package cli

import (
	"context"
	"errors"

	"github.com/JonMunkholm/RdgUpload/internal/core"
)

const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitCanceled = 130
)

// usageError marks errors caused by how the command was invoked rather than
// by the input file.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	var ue *usageError
	if errors.As(err, &ue) || errors.Is(err, core.ErrUnknownProfile) {
		return ExitUsage
	}
	return ExitFailure
}
