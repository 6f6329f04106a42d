// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package clientconfigtesting provides an in-memory endpoint store for
// tests.
package clientconfigtesting

import (
	"sync"

	"github.com/juju/errors"

	"github.com/juju/boaclient/clientconfig"
)

// MemStore is an EndpointStore held in memory.
type MemStore struct {
	mu        sync.Mutex
	Endpoints map[string]clientconfig.EndpointDetails
	Current   string
}

// NewMemStore returns a MemStore holding the default endpoints.
func NewMemStore() *MemStore {
	defaults := clientconfig.DefaultEndpoints()
	return &MemStore{
		Endpoints: defaults.Endpoints,
		Current:   defaults.Current,
	}
}

// AllEndpoints implements EndpointGetter.
func (s *MemStore) AllEndpoints() (map[string]clientconfig.EndpointDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make(map[string]clientconfig.EndpointDetails, len(s.Endpoints))
	for name, details := range s.Endpoints {
		all[name] = details
	}
	return all, nil
}

// EndpointByName implements EndpointGetter.
func (s *MemStore) EndpointByName(name string) (*clientconfig.EndpointDetails, error) {
	if err := clientconfig.ValidateEndpointName(name); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if details, ok := s.Endpoints[name]; ok {
		return &details, nil
	}
	return nil, errors.NotFoundf("endpoint %s", name)
}

// CurrentEndpoint implements EndpointGetter.
func (s *MemStore) CurrentEndpoint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Current == "" {
		return "", errors.NotFoundf("current endpoint")
	}
	return s.Current, nil
}

// UpdateEndpoint implements EndpointUpdater.
func (s *MemStore) UpdateEndpoint(name string, details clientconfig.EndpointDetails) error {
	if err := clientconfig.ValidateEndpointName(name); err != nil {
		return err
	}
	if err := clientconfig.ValidateEndpointDetails(details); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Endpoints[name] = details
	return nil
}

// SetCurrentEndpoint implements EndpointUpdater.
func (s *MemStore) SetCurrentEndpoint(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Endpoints[name]; !ok {
		return errors.NotFoundf("endpoint %s", name)
	}
	s.Current = name
	return nil
}

// RemoveEndpoint implements EndpointRemover.
func (s *MemStore) RemoveEndpoint(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Endpoints, name)
	if s.Current == name {
		s.Current = ""
	}
	return nil
}
