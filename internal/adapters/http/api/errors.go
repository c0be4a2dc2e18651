package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrAdminDisabled = errors.New("administrative endpoints are disabled")
	ErrMissingQuery  = errors.New(`search query parameter "q" is required`)
)

// opError tags an error with the handler operation that produced it.
type opError struct {
	Op  string
	Err error
}

func (e *opError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *opError) Unwrap() error { return e.Err }

// Wrap annotates err with op. It returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{Op: op, Err: err}
}

// badParam reports a malformed query parameter as ErrBadRequest.
func badParam(name, value string) error {
	return fmt.Errorf("%w: invalid %s %q", ErrBadRequest, name, value)
}
