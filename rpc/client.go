// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rpc issues XML-RPC calls over HTTPS, carrying the session
// headers and retrying calls whose round trip failed.
package rpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/retry"
	"golang.org/x/sync/semaphore"

	"github.com/juju/boaclient/rpc/session"
	"github.com/juju/boaclient/rpc/xmlrpc"
	"github.com/juju/boaclient/version"
)

var logger = loggo.GetLogger("boa.rpc")

const (
	// MaxRetries is the number of times a call is retried after its
	// first attempt fails with a transport error.
	MaxRetries = 5

	// RetryDelay is the unit of the linear back-off between attempts.
	RetryDelay = 100 * time.Millisecond

	// DefaultTimeout bounds a single round trip made by the default
	// HTTP client.
	DefaultTimeout = 2 * time.Minute

	// XML is the MIME type of request and response bodies.
	XML = "text/xml"
)

// BackoffDelay returns how long to wait after the given failed attempt,
// counted from 1, before trying again.
func BackoffDelay(attempt int) time.Duration {
	return time.Duration(attempt) * RetryDelay
}

// HTTPClient defines a type for making the actual request.
type HTTPClient interface {
	// Do performs the *http.Request and returns a *http.Response or an
	// error if it fails to complete the round trip.
	Do(*http.Request) (*http.Response, error)
}

// Config holds the dependencies of a Client.
type Config struct {
	// Endpoint is the https URL calls are posted to.
	Endpoint string

	// HTTPClient performs round trips. A client with DefaultTimeout is
	// used when it is nil.
	HTTPClient HTTPClient

	// Clock times the retry back-off and cookie expiry.
	Clock clock.Clock

	// Session holds the session headers. A new empty session is
	// created when it is nil.
	Session *session.State

	// Metrics, if set, records every call.
	Metrics *Collector

	// AllowInsecure permits a plain http endpoint. It exists for tests
	// against local servers.
	AllowInsecure bool
}

// Validate checks that the config is usable.
func (cfg Config) Validate() error {
	if cfg.Endpoint == "" {
		return errors.NotValidf("empty Endpoint")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return errors.NewNotValid(err, "invalid Endpoint")
	}
	switch u.Scheme {
	case "https":
	case "http":
		if !cfg.AllowInsecure {
			return errors.Annotatef(ErrInsecureEndpoint, "endpoint %q", cfg.Endpoint)
		}
	default:
		return errors.NotValidf("endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.NotValidf("endpoint %q without host", cfg.Endpoint)
	}
	return nil
}

// Client makes calls against one endpoint within one session. Calls are
// serialized: a call, including all of its retries, completes before
// the next one starts, so that the session headers sent with a request
// are always those absorbed from the previous response.
type Client struct {
	endpoint string
	http     HTTPClient
	clock    clock.Clock
	session  *session.State
	metrics  *Collector
	slot     *semaphore.Weighted
}

// NewClient returns a Client for the given config.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Session == nil {
		cfg.Session = session.New(cfg.Clock)
	}
	return &Client{
		endpoint: cfg.Endpoint,
		http:     cfg.HTTPClient,
		clock:    cfg.Clock,
		session:  cfg.Session,
		metrics:  cfg.Metrics,
		slot:     semaphore.NewWeighted(1),
	}, nil
}

// Endpoint returns the URL calls are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Session returns the session state owned by the client.
func (c *Client) Session() *session.State {
	return c.session
}

// SetToken sets the anti-forgery token sent with subsequent calls.
func (c *Client) SetToken(token string) {
	c.session.SetToken(token)
}

// Call invokes method with the given arguments and returns the decoded
// result. A fault returned by the server is a *xmlrpc.Fault error and a
// malformed response a *xmlrpc.DecodeError; neither is retried. A
// failed round trip is retried MaxRetries times, waiting
// BackoffDelay(n) after the nth attempt, before the last
// *TransportError is returned. Cancelling ctx abandons the call at the
// next opportunity.
func (c *Client) Call(ctx context.Context, method string, args ...xmlrpc.Value) (xmlrpc.Value, error) {
	body, err := xmlrpc.EncodeCall(method, args...)
	if err != nil {
		return xmlrpc.Value{}, errors.Annotatef(err, "encoding %s call", method)
	}

	if err := c.slot.Acquire(ctx, 1); err != nil {
		return xmlrpc.Value{}, errors.Annotatef(err, "waiting to call %s", method)
	}
	defer c.slot.Release(1)

	start := c.clock.Now()
	var (
		result  xmlrpc.Value
		attempt int
	)
	err = retry.Call(retry.CallArgs{
		Func: func() error {
			attempt++
			c.metrics.attempt(method)
			var err error
			result, err = c.roundTrip(ctx, method, body)
			return err
		},
		IsFatalError: func(err error) bool {
			return !IsTransportError(err)
		},
		NotifyFunc: func(err error, _ int) {
			if attempt <= MaxRetries {
				logger.Debugf("%s failed, retrying (%d): %v", method, attempt, err)
			}
		},
		BackoffFunc: func(time.Duration, int) time.Duration {
			return BackoffDelay(attempt)
		},
		Attempts: MaxRetries + 1,
		Delay:    RetryDelay,
		Clock:    c.clock,
		Stop:     ctx.Done(),
	})
	switch {
	case err == nil:
	case retry.IsAttemptsExceeded(err):
		err = retry.LastError(err)
		logger.Debugf("%s failed after %d attempts: %v", method, attempt, err)
	case retry.IsRetryStopped(err):
		err = errors.Annotatef(context.Cause(ctx), "calling %s", method)
	}
	c.metrics.call(method, Classify(err), c.clock.Now().Sub(start))
	if err != nil {
		return xmlrpc.Value{}, err
	}
	return result, nil
}

// roundTrip makes a single attempt at a call.
func (c *Client) roundTrip(ctx context.Context, method string, body []byte) (xmlrpc.Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return xmlrpc.Value{}, errors.Annotate(err, "can not make new request")
	}
	req.Header.Set("Content-Type", XML)
	req.Header.Set("Accept", XML)
	req.Header.Set("Accept-Charset", "UTF-8")
	req.Header.Set("User-Agent", version.UserAgent())
	c.session.Apply(req.Header)

	logger.Tracef("POST %s (%s)", c.endpoint, method)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return xmlrpc.Value{}, errors.Trace(context.Cause(ctx))
		}
		return xmlrpc.Value{}, &TransportError{Method: method, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	logger.Tracef("%s response %s", method, resp.Status)

	if resp.StatusCode == http.StatusNotFound {
		return xmlrpc.Value{}, &TransportError{
			Method: method,
			Err:    errors.NotFoundf("endpoint path %q", req.URL.Path),
		}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return xmlrpc.Value{}, &TransportError{
			Method: method,
			Err:    errors.Errorf("server error %q", resp.Status),
		}
	}

	// The response is complete as far as the session is concerned, fault
	// or not, so its cookies are taken before the body is decoded.
	c.session.Absorb(resp.Header)

	v, err := xmlrpc.DecodeResponse(resp.Body)
	switch {
	case err == nil:
		return v, nil
	case xmlrpc.IsFault(err):
		return xmlrpc.Value{}, err
	case xmlrpc.IsDecodeError(err):
		if resp.StatusCode >= http.StatusBadRequest {
			return xmlrpc.Value{}, errors.Annotatef(err, "%s returned %q", method, resp.Status)
		}
		return xmlrpc.Value{}, errors.Annotatef(err, "%s response", method)
	case ctx.Err() != nil:
		return xmlrpc.Value{}, errors.Trace(context.Cause(ctx))
	}
	// The body stopped arriving part way through.
	return xmlrpc.Value{}, &TransportError{Method: method, Err: err}
}
