// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cmdtesting provides helpers for testing commands.
package cmdtesting

import (
	"bytes"
	"context"
	"io"

	gc "gopkg.in/check.v1"

	"github.com/juju/boaclient/cmd"
)

// Context returns a context whose standard streams are buffers, and
// whose directory is a temporary one.
func Context(c *gc.C) *cmd.Context {
	return &cmd.Context{
		Context: context.Background(),
		Dir:     c.MkDir(),
		Env:     map[string]string{},
		Stdin:   &bytes.Buffer{},
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	}
}

// Stdout returns what was written to the context's stdout.
func Stdout(ctx *cmd.Context) string {
	return ctx.Stdout.(*bytes.Buffer).String()
}

// Stderr returns what was written to the context's stderr.
func Stderr(ctx *cmd.Context) string {
	return ctx.Stderr.(*bytes.Buffer).String()
}

// SetStdin replaces the context's stdin with r.
func SetStdin(ctx *cmd.Context, r io.Reader) {
	ctx.Stdin = r
}

// InitCommand parses args onto com as Main would.
func InitCommand(com cmd.Command, args []string) error {
	return cmd.ParseArgs(com, cmd.NewFlagSet(com), args)
}

// RunCommand runs com with args in a new test context and returns the
// context so its output can be inspected.
func RunCommand(c *gc.C, com cmd.Command, args ...string) (*cmd.Context, error) {
	ctx := Context(c)
	return ctx, RunCommandInContext(ctx, com, args...)
}

// RunCommandInContext runs com with args in ctx.
func RunCommandInContext(ctx *cmd.Context, com cmd.Command, args ...string) error {
	if err := InitCommand(com, args); err != nil {
		return err
	}
	return com.Run(ctx)
}

// HelpText returns a command's formatted help text.
func HelpText(com cmd.Command) string {
	return string(com.Info().Help(cmd.NewFlagSet(com)))
}
