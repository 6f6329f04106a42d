// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package base holds the interface API facades use to reach the
// server.
package base

import (
	"context"

	"github.com/juju/boaclient/rpc/xmlrpc"
)

//go:generate go run go.uber.org/mock/mockgen -package mocks -destination mocks/caller_mock.go github.com/juju/boaclient/api/base APICaller

// APICaller is implemented by the transport a facade sends its calls
// through. *rpc.Client is the production implementation.
type APICaller interface {
	// Call invokes the named remote method with positional arguments
	// and returns the decoded result.
	Call(ctx context.Context, method string, args ...xmlrpc.Value) (xmlrpc.Value, error)

	// SetToken sets the anti-forgery token sent with later calls.
	SetToken(token string)
}
