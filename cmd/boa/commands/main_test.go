// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands_test

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/boaclient/cmd/cmdtesting"
	"github.com/juju/boaclient/version"
)

type mainSuite struct {
	baseSuite
}

var _ = gc.Suite(&mainSuite{})

func (s *mainSuite) TestVersion(c *gc.C) {
	ctx, code := s.run(c, "--version")
	c.Assert(code, gc.Equals, 0)
	c.Check(cmdtesting.Stdout(ctx), gc.Equals, version.Current.String()+"\n")
}

func (s *mainSuite) TestHelpListsCommands(c *gc.C) {
	ctx, code := s.run(c, "help")
	c.Assert(code, gc.Equals, 0)
	out := cmdtesting.Stdout(ctx)
	for _, name := range []string{
		"add-endpoint", "datasets", "delete-job", "endpoints", "jobs",
		"output", "show-job", "submit", "switch-endpoint", "wait",
	} {
		c.Check(out, jc.Contains, name)
	}
}

func (s *mainSuite) TestHelpCommand(c *gc.C) {
	ctx, code := s.run(c, "help", "output")
	c.Assert(code, gc.Equals, 0)
	c.Check(cmdtesting.Stdout(ctx), jc.HasPrefix, "Usage: boa output [options] <id>\n")
	c.Check(cmdtesting.Stdout(ctx), jc.Contains, "--metrics-textfile")
}

func (s *mainSuite) TestUnknownCommand(c *gc.C) {
	ctx, code := s.run(c, "frobnicate")
	c.Check(code, gc.Equals, 2)
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "ERROR unrecognized command: boa frobnicate\n")
}
