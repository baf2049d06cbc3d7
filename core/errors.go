package core

import "github.com/pkg/errors"

// FieldError ties an error message to a request field, so the API can
// report it the way validator failures are reported.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a request error the API layer renders as a 400:
// either a bare message (Err) or a per-field map (Fields).
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdownError signals an unrecoverable state; the API error handler
// stops the server when it sees one.
type shutdownError struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdownError{message: msg}
}

func (s shutdownError) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdownError)
	return ok
}
