// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package clientconfig

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/mutex/v2"
)

var logger = loggo.GetLogger("boa.clientconfig")

// A second should be enough to read or write the file, but some disks
// are slow under load.
var lockTimeout = 5 * time.Second

const lockName = "boa-clientconfig"

// NewFileEndpointStore returns an EndpointStore keeping endpoints in the
// file at EndpointsPath.
func NewFileEndpointStore() EndpointStore {
	return &store{path: EndpointsPath}
}

type store struct {
	path func() string
}

func (s *store) acquireLock(operation string) (mutex.Releaser, error) {
	releaser, err := mutex.Acquire(mutex.Spec{
		Name:    lockName,
		Clock:   clock.WallClock,
		Delay:   20 * time.Millisecond,
		Timeout: lockTimeout,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "cannot acquire lock to %s", operation)
	}
	logger.Tracef("acquired lock to %s", operation)
	return releaser, nil
}

// update loads the file, applies f and writes the result back, all
// under the lock.
func (s *store) update(operation string, f func(*Endpoints) error) error {
	releaser, err := s.acquireLock(operation)
	if err != nil {
		return errors.Trace(err)
	}
	defer releaser.Release()

	endpoints, err := ReadEndpointsFile(s.path())
	if err != nil {
		return errors.Trace(err)
	}
	if err := f(endpoints); err != nil {
		return errors.Trace(err)
	}
	return WriteEndpointsFile(s.path(), endpoints)
}

func (s *store) read(operation string) (*Endpoints, error) {
	releaser, err := s.acquireLock(operation)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer releaser.Release()
	return ReadEndpointsFile(s.path())
}

// AllEndpoints implements EndpointGetter.
func (s *store) AllEndpoints() (map[string]EndpointDetails, error) {
	endpoints, err := s.read("read all endpoints")
	if err != nil {
		return nil, errors.Annotate(err, "cannot read all endpoints")
	}
	return endpoints.Endpoints, nil
}

// EndpointByName implements EndpointGetter.
func (s *store) EndpointByName(name string) (*EndpointDetails, error) {
	if err := ValidateEndpointName(name); err != nil {
		return nil, errors.Trace(err)
	}
	endpoints, err := s.read("read endpoint")
	if err != nil {
		return nil, errors.Annotatef(err, "cannot read endpoint %v", name)
	}
	if details, ok := endpoints.Endpoints[name]; ok {
		return &details, nil
	}
	return nil, errors.NotFoundf("endpoint %s", name)
}

// CurrentEndpoint implements EndpointGetter.
func (s *store) CurrentEndpoint() (string, error) {
	endpoints, err := s.read("read current endpoint")
	if err != nil {
		return "", errors.Annotate(err, "cannot read current endpoint")
	}
	if endpoints.Current == "" {
		return "", errors.NotFoundf("current endpoint")
	}
	return endpoints.Current, nil
}

// UpdateEndpoint implements EndpointUpdater.
func (s *store) UpdateEndpoint(name string, details EndpointDetails) error {
	if err := ValidateEndpointName(name); err != nil {
		return errors.Trace(err)
	}
	if err := ValidateEndpointDetails(details); err != nil {
		return errors.Trace(err)
	}
	err := s.update("update endpoint", func(endpoints *Endpoints) error {
		endpoints.Endpoints[name] = details
		return nil
	})
	return errors.Annotatef(err, "cannot update endpoint %v", name)
}

// SetCurrentEndpoint implements EndpointUpdater.
func (s *store) SetCurrentEndpoint(name string) error {
	if err := ValidateEndpointName(name); err != nil {
		return errors.Trace(err)
	}
	return s.update("set current endpoint", func(endpoints *Endpoints) error {
		if _, ok := endpoints.Endpoints[name]; !ok {
			return errors.NotFoundf("endpoint %s", name)
		}
		endpoints.Current = name
		return nil
	})
}

// RemoveEndpoint implements EndpointRemover.
func (s *store) RemoveEndpoint(name string) error {
	if err := ValidateEndpointName(name); err != nil {
		return errors.Trace(err)
	}
	err := s.update("remove endpoint", func(endpoints *Endpoints) error {
		delete(endpoints.Endpoints, name)
		if endpoints.Current == name {
			endpoints.Current = ""
		}
		return nil
	})
	return errors.Annotatef(err, "cannot remove endpoint %v", name)
}
