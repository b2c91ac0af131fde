package cli

import (
	"errors"

	"github.com/Seeyong/pyowm/pkg/apierr"
)

// Exit codes returned by the owm binary.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUnauthorized = 3
	ExitNotFound     = 4
	ExitBadGateway   = 5
	ExitParse        = 6
	ExitAPICall      = 7
)

// ExitCode maps err to the process exit code. Bad gateway is checked before
// the generic API call error it also matches.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, apierr.ErrUnauthorized):
		return ExitUnauthorized
	case errors.Is(err, apierr.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, apierr.ErrBadGateway):
		return ExitBadGateway
	case errors.Is(err, apierr.ErrParseResponse):
		return ExitParse
	case errors.Is(err, apierr.ErrAPICall):
		return ExitAPICall
	default:
		return ExitFailure
	}
}
