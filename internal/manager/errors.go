package manager

import (
	"errors"
	"net/http"

	"intentd/internal/intent"
)

// StageError wraps a failure of one pipeline stage's external call.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return string(e.Stage) + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// StatusCode maps upstream failures to 502 for the HTTP layer.
func (e *StageError) StatusCode() int { return http.StatusBadGateway }

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// IsUpstream reports whether err is a failed external model call.
func IsUpstream(err error) bool {
	var se *StageError
	return errors.As(err, &se)
}

// IsUnsupportedBackend reports whether err names an unknown backend (return 400).
func IsUnsupportedBackend(err error) bool { return intent.IsUnsupportedBackend(err) }

// invalidArgumentError signals a request the pipeline cannot act on.
type invalidArgumentError struct{ msg string }

func (e invalidArgumentError) Error() string { return e.msg }

func (e invalidArgumentError) StatusCode() int { return http.StatusBadRequest }

// ErrInvalidArgument constructs an invalid-argument error.
func ErrInvalidArgument(msg string) error { return invalidArgumentError{msg: msg} }

// IsInvalidArgument reports whether err indicates bad caller input.
func IsInvalidArgument(err error) bool {
	var e invalidArgumentError
	return errors.As(err, &e) || IsUnsupportedBackend(err)
}
