package intent

import (
	"errors"
	"fmt"
	"net/http"
)

// unsupportedBackendError signals an unknown backend name (invalid argument).
type unsupportedBackendError struct{ name string }

func (e unsupportedBackendError) Error() string { return "unsupported model: " + e.name }

// StatusCode lets the HTTP layer map this error to 400.
func (e unsupportedBackendError) StatusCode() int { return http.StatusBadRequest }

// ErrUnsupportedBackend returns an invalid-argument error for name.
func ErrUnsupportedBackend(name string) error { return unsupportedBackendError{name: name} }

// IsUnsupportedBackend reports whether err indicates an unknown backend name.
func IsUnsupportedBackend(err error) bool {
	var e unsupportedBackendError
	return errors.As(err, &e)
}

// upstreamError reports a failed or malformed reply from a classification endpoint.
type upstreamError struct {
	backend string
	status  int
	msg     string
}

func (e upstreamError) Error() string {
	if e.status != 0 {
		return fmt.Sprintf("%s backend http %d: %s", e.backend, e.status, e.msg)
	}
	return fmt.Sprintf("%s backend: %s", e.backend, e.msg)
}

// IsUpstream reports whether err came from a classification endpoint.
func IsUpstream(err error) bool {
	var e upstreamError
	return errors.As(err, &e)
}
