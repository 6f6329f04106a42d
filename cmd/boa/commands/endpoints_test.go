// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands_test

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/boaclient/clientconfig"
	"github.com/juju/boaclient/cmd/cmdtesting"
)

type endpointsSuite struct {
	baseSuite
}

var _ = gc.Suite(&endpointsSuite{})

func (s *endpointsSuite) TestListTabular(c *gc.C) {
	s.store.Endpoints = map[string]clientconfig.EndpointDetails{
		"a":    {URL: "https://a.example.com", Description: "first"},
		"test": {URL: "https://t.example.com/api", Description: "second"},
	}
	ctx, code := s.run(c, "endpoints")
	c.Assert(code, gc.Equals, 0, gc.Commentf("stderr: %s", cmdtesting.Stderr(ctx)))
	c.Check(cmdtesting.Stdout(ctx), gc.Equals, ""+
		"Endpoint  URL                        Description\n"+
		"a         https://a.example.com      first\n"+
		"test*     https://t.example.com/api  second\n")
}

func (s *endpointsSuite) TestListYAML(c *gc.C) {
	s.store.Endpoints = map[string]clientconfig.EndpointDetails{
		"test": {URL: "https://boa.example.com/api"},
	}
	ctx, code := s.run(c, "endpoints", "--format", "yaml")
	c.Assert(code, gc.Equals, 0)
	c.Check(cmdtesting.Stdout(ctx), gc.Equals, `
endpoints:
  test:
    url: https://boa.example.com/api
current-endpoint: test
`[1:])
}

func (s *endpointsSuite) TestAddEndpoint(c *gc.C) {
	ctx, code := s.run(c, "add-endpoint", "mirror", "https://mirror.example.com/boa/?q=boa/api", "--description", "a mirror")
	c.Assert(code, gc.Equals, 0, gc.Commentf("stderr: %s", cmdtesting.Stderr(ctx)))
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "Added endpoint \"mirror\"\n")

	details, err := s.store.EndpointByName("mirror")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(*details, jc.DeepEquals, clientconfig.EndpointDetails{
		URL:         "https://mirror.example.com/boa/?q=boa/api",
		Description: "a mirror",
	})
	current, err := s.store.CurrentEndpoint()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(current, gc.Equals, "test")
}

func (s *endpointsSuite) TestAddEndpointSwitch(c *gc.C) {
	_, code := s.run(c, "add-endpoint", "--switch", "mirror", "https://mirror.example.com/api")
	c.Assert(code, gc.Equals, 0)
	current, err := s.store.CurrentEndpoint()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(current, gc.Equals, "mirror")
}

func (s *endpointsSuite) TestAddEndpointInvalid(c *gc.C) {
	for _, test := range []struct {
		args []string
		err  string
	}{{
		args: []string{"add-endpoint"},
		err:  "no endpoint name specified",
	}, {
		args: []string{"add-endpoint", "mirror"},
		err:  "no endpoint URL specified",
	}, {
		args: []string{"add-endpoint", "Mirror", "https://mirror.example.com/api"},
		err:  `.*endpoint name "Mirror" not valid`,
	}, {
		args: []string{"add-endpoint", "mirror", "http://mirror.example.com/api"},
		err:  ".*not valid.*",
	}, {
		args: []string{"add-endpoint", "mirror", "https://mirror.example.com/api", "extra"},
		err:  `unrecognized args: \["extra"\]`,
	}} {
		c.Logf("args %q", test.args)
		ctx, code := s.run(c, test.args...)
		c.Check(code, gc.Equals, 2)
		c.Check(cmdtesting.Stderr(ctx), gc.Matches, "ERROR "+test.err+"\n")
	}
	_, err := s.store.EndpointByName("mirror")
	c.Check(err, jc.ErrorIs, errors.NotFound)
}

func (s *endpointsSuite) TestSwitchEndpoint(c *gc.C) {
	ctx, code := s.run(c, "switch-endpoint", "boac")
	c.Assert(code, gc.Equals, 0)
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "test -> boac\n")
	c.Check(s.store.Current, gc.Equals, "boac")
}

func (s *endpointsSuite) TestSwitchAlias(c *gc.C) {
	s.store.Current = ""
	ctx, code := s.run(c, "switch", "boa")
	c.Assert(code, gc.Equals, 0)
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "-> boa\n")
}

func (s *endpointsSuite) TestSwitchUnknownEndpoint(c *gc.C) {
	ctx, code := s.run(c, "switch-endpoint", "nowhere")
	c.Check(code, gc.Equals, 1)
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "ERROR endpoint nowhere not found\n")
	c.Check(s.store.Current, gc.Equals, "test")
}
