// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package clientconfig keeps the Boa endpoints known to the client in a
// file under the client's data home.
package clientconfig

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"
	"gopkg.in/yaml.v2"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/osenv"
)

const (
	// DefaultEndpointName names the public Boa service.
	DefaultEndpointName = "boa"

	// BoacEndpointName names the Boa service for C.
	BoacEndpointName = "boac"
)

// DefaultEndpoints returns the endpoints known before any are added.
func DefaultEndpoints() *Endpoints {
	return &Endpoints{
		Endpoints: map[string]EndpointDetails{
			DefaultEndpointName: {URL: api.BoaEndpoint, Description: "Boa for Java and Python repositories"},
			BoacEndpointName:    {URL: api.BoacEndpoint, Description: "Boa for C repositories"},
		},
		Current: DefaultEndpointName,
	}
}

// EndpointsPath is the location of the endpoints file.
func EndpointsPath() string {
	return osenv.DataHomePath("endpoints.yaml")
}

var validEndpointName = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*$`)

// ValidateEndpointName checks that name can name an endpoint.
func ValidateEndpointName(name string) error {
	if !validEndpointName.MatchString(name) {
		return errors.NotValidf("endpoint name %q", name)
	}
	return nil
}

// ValidateEndpointDetails checks that details describe a usable
// endpoint.
func ValidateEndpointDetails(details EndpointDetails) error {
	if details.URL == "" {
		return errors.NotValidf("missing URL")
	}
	if !strings.HasPrefix(details.URL, "https://") {
		return errors.NotValidf("endpoint URL %q not using https", details.URL)
	}
	return nil
}

// ReadEndpointsFile loads the endpoints in the file at path. A missing
// file holds the default endpoints.
func ReadEndpointsFile(path string) (*Endpoints, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultEndpoints(), nil
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	endpoints, err := ParseEndpoints(data)
	if err != nil {
		return nil, errors.Annotatef(err, "reading %s", path)
	}
	return endpoints, nil
}

// ParseEndpoints parses the content of an endpoints file.
func ParseEndpoints(data []byte) (*Endpoints, error) {
	var endpoints Endpoints
	if err := yaml.Unmarshal(data, &endpoints); err != nil {
		return nil, errors.Annotate(err, "cannot unmarshal endpoints")
	}
	if endpoints.Endpoints == nil {
		endpoints.Endpoints = make(map[string]EndpointDetails)
	}
	return &endpoints, nil
}

// WriteEndpointsFile replaces the file at path with endpoints.
func WriteEndpointsFile(path string, endpoints *Endpoints) error {
	data, err := yaml.Marshal(endpoints)
	if err != nil {
		return errors.Annotate(err, "cannot marshal endpoints")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Trace(err)
	}
	return utils.AtomicWriteFile(path, data, os.FileMode(0600))
}

// ResolveEndpoint returns the URL an endpoint argument refers to. An
// argument holding "://" is taken as a URL; anything else names an
// endpoint in the store. An empty argument means the current endpoint.
func ResolveEndpoint(store EndpointGetter, nameOrURL string) (string, error) {
	if strings.Contains(nameOrURL, "://") {
		return nameOrURL, nil
	}
	name := nameOrURL
	if name == "" {
		current, err := store.CurrentEndpoint()
		if err != nil {
			return "", errors.Trace(err)
		}
		name = current
	}
	details, err := store.EndpointByName(name)
	if err != nil {
		return "", errors.Trace(err)
	}
	return details.URL, nil
}
