// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package session holds the cookies and anti-forgery token that
// authenticate a single API session.
package session

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("boa.rpc.session")

const (
	// CookieHeader carries all live cookies on a request.
	CookieHeader = "Cookie"

	// SetCookieHeader carries cookie directives on a response.
	SetCookieHeader = "Set-Cookie"

	// TokenHeader carries the anti-forgery token on a request.
	TokenHeader = "X-CSRF-Token"
)

type cookie struct {
	name    string
	value   string
	expires time.Time
}

func (c cookie) expired(now time.Time) bool {
	return !c.expires.IsZero() && now.After(c.expires)
}

// State is the mutable session context of one API client. It is safe
// for concurrent use, although a client only ever applies and absorbs
// headers for one call at a time.
type State struct {
	clock clock.Clock

	mu      sync.Mutex
	cookies []cookie
	token   string
}

// New returns an empty session state which uses clk to decide when
// cookies have expired.
func New(clk clock.Clock) *State {
	if clk == nil {
		clk = clock.WallClock
	}
	return &State{clock: clk}
}

// Apply adds the session's live cookies, as a single combined header,
// and the anti-forgery token to h. Expired cookies are dropped from the
// session instead of being sent.
func (s *State) Apply(h http.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()
	if len(s.cookies) > 0 {
		pairs := make([]string, len(s.cookies))
		for i, c := range s.cookies {
			pairs[i] = c.name + "=" + c.value
		}
		h.Set(CookieHeader, strings.Join(pairs, "; "))
	}
	if s.token != "" {
		h.Set(TokenHeader, s.token)
	}
}

// Absorb records every cookie directive found in h. A directive
// replaces any cookie of the same name; a directive that has already
// expired removes it. Other cookies are left alone.
func (s *State) Absorb(h http.Header) {
	lines := h.Values(SetCookieHeader)
	if len(lines) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for _, line := range lines {
		parsed, err := http.ParseSetCookie(line)
		if err != nil {
			logger.Debugf("ignoring malformed cookie directive: %v", err)
			continue
		}
		c := cookie{name: parsed.Name, value: parsed.Value}
		switch {
		case parsed.MaxAge < 0:
			s.removeLocked(c.name)
			continue
		case parsed.MaxAge > 0:
			c.expires = now.Add(time.Duration(parsed.MaxAge) * time.Second)
		case !parsed.Expires.IsZero():
			c.expires = parsed.Expires
		}
		if c.expired(now) {
			s.removeLocked(c.name)
			continue
		}
		s.setLocked(c)
	}
}

// SetToken sets the anti-forgery token sent with every request. An
// empty token stops the header being sent.
func (s *State) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the current anti-forgery token.
func (s *State) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Cookie returns the value of the named cookie, if it is set and has
// not expired.
func (s *State) Cookie(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()
	for _, c := range s.cookies {
		if c.name == name {
			return c.value, true
		}
	}
	return "", false
}

func (s *State) setLocked(c cookie) {
	for i := range s.cookies {
		if s.cookies[i].name == c.name {
			s.cookies[i] = c
			return
		}
	}
	s.cookies = append(s.cookies, c)
}

func (s *State) removeLocked(name string) {
	for i := range s.cookies {
		if s.cookies[i].name == name {
			s.cookies = append(s.cookies[:i], s.cookies[i+1:]...)
			return
		}
	}
}

func (s *State) purgeLocked() {
	now := s.clock.Now()
	live := s.cookies[:0]
	for _, c := range s.cookies {
		if c.expired(now) {
			logger.Tracef("cookie %q expired at %v", c.name, c.expires)
			continue
		}
		live = append(live, c)
	}
	s.cookies = live
}
