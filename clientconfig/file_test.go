// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package clientconfig_test

import (
	"os"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/clientconfig"
	"github.com/juju/boaclient/clientconfig/clientconfigtesting"
	"github.com/juju/boaclient/osenv"
)

type fileSuite struct {
	testing.IsolationSuite
	store clientconfig.EndpointStore
}

var _ = gc.Suite(&fileSuite{})

func (s *fileSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	osenv.SetDataHome(c.MkDir())
	s.AddCleanup(func(*gc.C) { osenv.SetDataHome("") })
	s.store = clientconfig.NewFileEndpointStore()
}

func (s *fileSuite) TestDefaultsWithoutFile(c *gc.C) {
	all, err := s.store.AllEndpoints()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(all, jc.DeepEquals, clientconfig.DefaultEndpoints().Endpoints)

	current, err := s.store.CurrentEndpoint()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(current, gc.Equals, clientconfig.DefaultEndpointName)

	_, err = os.Stat(clientconfig.EndpointsPath())
	c.Check(os.IsNotExist(err), jc.IsTrue)
}

func (s *fileSuite) TestUpdateEndpoint(c *gc.C) {
	details := clientconfig.EndpointDetails{URL: "https://boa.example.com/boa/?q=boa/api"}
	err := s.store.UpdateEndpoint("local", details)
	c.Assert(err, jc.ErrorIsNil)

	got, err := s.store.EndpointByName("local")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(*got, jc.DeepEquals, details)

	// The defaults are written along with the new endpoint.
	got, err = s.store.EndpointByName(clientconfig.BoacEndpointName)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(got.URL, gc.Equals, api.BoacEndpoint)

	info, err := os.Stat(clientconfig.EndpointsPath())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info.Mode().Perm(), gc.Equals, os.FileMode(0600))
}

func (s *fileSuite) TestUpdateEndpointInvalid(c *gc.C) {
	err := s.store.UpdateEndpoint("Bad Name", clientconfig.EndpointDetails{URL: "https://x"})
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	err = s.store.UpdateEndpoint("plain", clientconfig.EndpointDetails{URL: "http://x"})
	c.Check(err, jc.Satisfies, errors.IsNotValid)
}

func (s *fileSuite) TestSetCurrentEndpoint(c *gc.C) {
	err := s.store.SetCurrentEndpoint(clientconfig.BoacEndpointName)
	c.Assert(err, jc.ErrorIsNil)
	current, err := s.store.CurrentEndpoint()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(current, gc.Equals, clientconfig.BoacEndpointName)

	err = s.store.SetCurrentEndpoint("missing")
	c.Check(err, jc.Satisfies, errors.IsNotFound)
}

func (s *fileSuite) TestRemoveCurrentEndpoint(c *gc.C) {
	err := s.store.RemoveEndpoint(clientconfig.DefaultEndpointName)
	c.Assert(err, jc.ErrorIsNil)

	_, err = s.store.EndpointByName(clientconfig.DefaultEndpointName)
	c.Check(err, jc.Satisfies, errors.IsNotFound)
	_, err = s.store.CurrentEndpoint()
	c.Check(err, jc.Satisfies, errors.IsNotFound)
}

func (s *fileSuite) TestParseEndpoints(c *gc.C) {
	endpoints, err := clientconfig.ParseEndpoints([]byte(`
endpoints:
  boa:
    url: https://boa.cs.iastate.edu/boa/?q=boa/api
current-endpoint: boa
`))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(endpoints.Current, gc.Equals, "boa")
	c.Check(endpoints.Endpoints["boa"].URL, gc.Equals, api.BoaEndpoint)

	_, err = clientconfig.ParseEndpoints([]byte("endpoints: [1, 2"))
	c.Check(err, gc.ErrorMatches, "cannot unmarshal endpoints: .*")
}

func (s *fileSuite) TestResolveEndpoint(c *gc.C) {
	store := clientconfigtesting.NewMemStore()

	url, err := clientconfig.ResolveEndpoint(store, "")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(url, gc.Equals, api.BoaEndpoint)

	url, err = clientconfig.ResolveEndpoint(store, "boac")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(url, gc.Equals, api.BoacEndpoint)

	url, err = clientconfig.ResolveEndpoint(store, "https://other.example.com/api")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(url, gc.Equals, "https://other.example.com/api")

	_, err = clientconfig.ResolveEndpoint(store, "nowhere")
	c.Check(err, jc.Satisfies, errors.IsNotFound)
}
