// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rpctest provides a fake XML-RPC server for tests.
package rpctest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/juju/boaclient/rpc/xmlrpc"
)

// Call is a single call received by the server.
type Call struct {
	Method string
	Args   []xmlrpc.Value
	// Header holds the request headers.
	Header http.Header
	// ResponseHeader may be filled in by a handler to add headers,
	// such as cookies, to the response.
	ResponseHeader http.Header
}

// Handler answers a call. Returning a *xmlrpc.Fault sends a fault
// envelope; any other error sends a fault with code 500.
type Handler func(call *Call) (xmlrpc.Value, error)

// Server is a fake XML-RPC endpoint.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	handlers  map[string]Handler
	calls     []*Call
	intercept func(w http.ResponseWriter, r *http.Request) bool
}

// NewServer starts and returns a new Server. The caller should call
// Close when finished.
func NewServer() *Server {
	s := &Server{handlers: make(map[string]Handler)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

// Handle registers the handler for method.
func (s *Server) Handle(method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// Intercept installs f to run before any call is decoded. If f returns
// true it has written the response itself and the call is not
// dispatched. Intercepted requests are not recorded.
func (s *Server) Intercept(f func(w http.ResponseWriter, r *http.Request) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intercept = f
}

// Calls returns the calls received so far.
func (s *Server) Calls() []*Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Call(nil), s.calls...)
}

// Methods returns the method names of the calls received so far.
func (s *Server) Methods() []string {
	calls := s.Calls()
	methods := make([]string, len(calls))
	for i, call := range calls {
		methods[i] = call.Method
	}
	return methods
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	intercept := s.intercept
	s.mu.Unlock()
	if intercept != nil && intercept(w, r) {
		return
	}

	method, args, err := xmlrpc.DecodeCall(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	call := &Call{
		Method:         method,
		Args:           args,
		Header:         r.Header.Clone(),
		ResponseHeader: make(http.Header),
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	handler := s.handlers[method]
	s.mu.Unlock()

	var body []byte
	if handler == nil {
		body, err = xmlrpc.EncodeFault(&xmlrpc.Fault{
			Code:    -32601,
			Message: "server error. requested method " + method + " not specified.",
		})
	} else {
		var result xmlrpc.Value
		result, err = handler(call)
		switch fault := err.(type) {
		case nil:
			body, err = xmlrpc.EncodeResponse(result)
		case *xmlrpc.Fault:
			body, err = xmlrpc.EncodeFault(fault)
		default:
			body, err = xmlrpc.EncodeFault(&xmlrpc.Fault{Code: 500, Message: err.Error()})
		}
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for k, vs := range call.ResponseHeader {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write(body)
}
