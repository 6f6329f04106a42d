// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package api implements the Boa remote operations on top of an XML-RPC
// transport, and the handle through which a submitted job is followed.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/boaclient/api/base"
	"github.com/juju/boaclient/rpc"
	"github.com/juju/boaclient/rpc/xmlrpc"
)

var logger = loggo.GetLogger("boa.api")

const (
	// BoaEndpoint is the API endpoint of the public Boa service.
	BoaEndpoint = "https://boa.cs.iastate.edu/boa/?q=boa/api"

	// BoacEndpoint is the API endpoint of the Boa service for C.
	BoacEndpoint = "https://boa.cs.iastate.edu/boac/?q=boa/api"
)

const redacted = "[redacted]"

// Config holds the dependencies of a Client.
type Config struct {
	// Caller sends the remote calls.
	Caller base.APICaller

	// HTTPClient fetches job output, which is served outside the
	// XML-RPC endpoint. http.DefaultClient is used when it is nil.
	HTTPClient rpc.HTTPClient

	// Clock paces Job.Wait. The wall clock is used when it is nil.
	Clock clock.Clock
}

// Validate checks that the config is usable.
func (cfg Config) Validate() error {
	if cfg.Caller == nil {
		return errors.NotValidf("nil Caller")
	}
	return nil
}

// Client is the Boa API. A Client and the jobs it hands out share one
// session; calls made through them are serialized by the caller.
type Client struct {
	caller base.APICaller
	http   rpc.HTTPClient
	clock  clock.Clock
}

// NewClient returns a Client using the given config.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	return &Client{
		caller: cfg.Caller,
		http:   cfg.HTTPClient,
		clock:  cfg.Clock,
	}, nil
}

// Open returns a Client talking to the endpoint described by cfg over a
// new session.
func Open(cfg rpc.Config) (*Client, error) {
	caller, err := rpc.NewClient(cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return NewClient(Config{
		Caller:     caller,
		HTTPClient: cfg.HTTPClient,
		Clock:      cfg.Clock,
	})
}

// Login authenticates the session. The anti-forgery token returned by
// the service is sent with every later call. The password never appears
// in a returned error.
func (c *Client) Login(ctx context.Context, user, password string) error {
	result, err := c.caller.Call(ctx, "user.login", xmlrpc.String(user), xmlrpc.String(password))
	if err != nil {
		return redactLogin(err, user, password)
	}
	if token, ok := result.Get("token"); ok {
		if s, err := asText(token); err == nil && s != "" {
			c.caller.SetToken(s)
		}
	}
	logger.Debugf("logged in as %q", user)
	return nil
}

// Logout ends the session on the server. The client should not be used
// afterwards.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.caller.Call(ctx, "user.logout")
	return errors.Annotate(err, "logging out")
}

// Close logs out, logging rather than returning any failure.
func (c *Client) Close(ctx context.Context) {
	if err := c.Logout(ctx); err != nil {
		logger.Warningf("%v", err)
	}
}

// redactLogin rewrites err so that it no longer carries the password,
// including inside an echoed call signature.
func redactLogin(err error, user, password string) error {
	if password == "" {
		return errors.Annotate(err, "logging in")
	}
	var pairs []string
	for _, form := range []string{"%s, %s", "%q, %q", "'%s', '%s'"} {
		pairs = append(pairs, "user.login("+fmt.Sprintf(form, user, password)+")", "user.login("+redacted+")")
	}
	pairs = append(pairs, password, redacted)
	scrub := strings.NewReplacer(pairs...)

	msg := err.Error()
	if scrub.Replace(msg) == msg {
		return errors.Annotate(err, "logging in")
	}
	var (
		fault        *xmlrpc.Fault
		transportErr *rpc.TransportError
		decodeErr    *xmlrpc.DecodeError
	)
	switch {
	case errors.As(err, &fault):
		return errors.Annotate(&xmlrpc.Fault{
			Code:    fault.Code,
			Message: scrub.Replace(fault.Message),
		}, "logging in")
	case errors.As(err, &transportErr):
		return errors.Annotate(&rpc.TransportError{
			Method: transportErr.Method,
			Err:    errors.New(scrub.Replace(errorText(transportErr.Err))),
		}, "logging in")
	case errors.As(err, &decodeErr):
		return errors.Annotate(
			xmlrpc.NewDecodeError(errors.New(scrub.Replace(errorText(decodeErr.Unwrap())))),
			"logging in",
		)
	}
	return errors.Annotate(errors.New(scrub.Replace(msg)), "logging in")
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
