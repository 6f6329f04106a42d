// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package xmlrpc

import (
	"fmt"

	"github.com/juju/errors"
)

// Fault is a well-formed error response returned by the remote service.
type Fault struct {
	Code    int
	Message string
}

// Error implements error.
func (f *Fault) Error() string {
	return fmt.Sprintf("fault %d: %s", f.Code, f.Message)
}

// IsFault reports whether the cause of err is a *Fault.
func IsFault(err error) bool {
	var fault *Fault
	return errors.As(err, &fault)
}

// DecodeError is returned when a payload is not a well-formed XML-RPC
// document.
type DecodeError struct {
	err error
}

func newDecodeError(format string, args ...any) *DecodeError {
	return NewDecodeError(fmt.Errorf(format, args...))
}

// NewDecodeError returns a DecodeError wrapping err.
func NewDecodeError(err error) *DecodeError {
	return &DecodeError{err: err}
}

// Error implements error.
func (e *DecodeError) Error() string {
	return "malformed xml-rpc payload: " + e.err.Error()
}

// Unwrap returns the underlying parse error.
func (e *DecodeError) Unwrap() error {
	return e.err
}

// IsDecodeError reports whether err was caused by a malformed payload.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}
