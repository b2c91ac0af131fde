package httpclient

import (
	"net/http"

	"github.com/Seeyong/pyowm/pkg/apierr"
)

// IsSuccess reports whether status is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status <= 299
}

// CheckStatusCode maps a non-2xx status to its error kind. It returns nil for
// a successful status.
func CheckStatusCode(status int, message string) error {
	if IsSuccess(status) {
		return nil
	}

	kind := apierr.ErrAPICall
	switch status {
	case http.StatusUnauthorized:
		kind = apierr.ErrUnauthorized
	case http.StatusNotFound:
		kind = apierr.ErrNotFound
	case http.StatusBadGateway:
		kind = apierr.ErrBadGateway
	}

	return &apierr.StatusError{
		StatusCode: status,
		Message:    message,
		Kind:       kind,
	}
}
