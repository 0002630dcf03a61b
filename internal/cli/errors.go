package cli

import (
	"errors"

	"github.com/rshade/confirmvotes/internal/config"
	"github.com/rshade/confirmvotes/internal/views"
)

// ErrRecordNotFound is returned when a show, record, or view target does not exist.
var ErrRecordNotFound = errors.New("record not found")

// Process exit codes.
const (
	ExitOK                 = 0
	ExitError              = 1
	ExitMissingCredentials = 2
	ExitNotFound           = 3
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, config.ErrMissingCredentials):
		return ExitMissingCredentials
	case errors.Is(err, ErrRecordNotFound), errors.Is(err, views.ErrNotFound):
		return ExitNotFound
	default:
		return ExitError
	}
}
