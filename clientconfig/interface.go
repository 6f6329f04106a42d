// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package clientconfig

// EndpointDetails holds what is needed to reach a Boa service.
type EndpointDetails struct {
	// URL is the XML-RPC endpoint of the service.
	URL string `yaml:"url" json:"url"`

	// Description says what the service offers.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Endpoints is the content of the endpoints file.
type Endpoints struct {
	// Endpoints is keyed on endpoint name.
	Endpoints map[string]EndpointDetails `yaml:"endpoints"`

	// Current names the endpoint used when none is given.
	Current string `yaml:"current-endpoint,omitempty"`
}

// EndpointUpdater stores endpoints.
type EndpointUpdater interface {
	// UpdateEndpoint adds the named endpoint, or overwrites it if it
	// exists.
	UpdateEndpoint(name string, details EndpointDetails) error

	// SetCurrentEndpoint makes the named endpoint current. The
	// endpoint must exist.
	SetCurrentEndpoint(name string) error
}

// EndpointRemover removes endpoints.
type EndpointRemover interface {
	// RemoveEndpoint removes the named endpoint. If it was current, no
	// endpoint is current afterwards.
	RemoveEndpoint(name string) error
}

// EndpointGetter reads endpoints.
type EndpointGetter interface {
	// AllEndpoints returns all the endpoints keyed on name.
	AllEndpoints() (map[string]EndpointDetails, error)

	// EndpointByName returns the named endpoint. If there is no such
	// endpoint an error satisfying errors.IsNotFound is returned.
	EndpointByName(name string) (*EndpointDetails, error)

	// CurrentEndpoint returns the name of the current endpoint. If no
	// endpoint is current an error satisfying errors.IsNotFound is
	// returned.
	CurrentEndpoint() (string, error)
}

// EndpointStore keeps the endpoints known to the client.
type EndpointStore interface {
	EndpointUpdater
	EndpointRemover
	EndpointGetter
}
