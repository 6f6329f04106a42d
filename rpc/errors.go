// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/juju/boaclient/rpc/xmlrpc"
)

// ErrInsecureEndpoint is returned when a client is configured with a
// plain http endpoint.
const ErrInsecureEndpoint = errors.ConstError("endpoint must use https")

// TransportError represents a failure to complete a round trip with the
// server: a connection failure, a timeout, or a routing or server error
// status. Calls failing this way are retried.
type TransportError struct {
	// Method is the remote method being called.
	Method string
	// Err is the underlying failure.
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("calling %s: %v", e.Method, e.Err)
}

// Unwrap returns the underlying failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err was caused by a failed round
// trip, as opposed to a fault or a malformed response.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// Outcome classifies the result of a call.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFault     Outcome = "fault"
	OutcomeProtocol  Outcome = "protocol"
	OutcomeTransport Outcome = "transport"
	OutcomeCancelled Outcome = "cancelled"
)

// Classify returns the outcome a call ending with err had.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case xmlrpc.IsFault(err):
		return OutcomeFault
	case xmlrpc.IsDecodeError(err):
		return OutcomeProtocol
	case IsTransportError(err):
		return OutcomeTransport
	}
	return OutcomeCancelled
}
