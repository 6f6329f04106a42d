// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Context represents the run context of a Command. Command
// implementations should interpret file names relative to Dir (see
// AbsPath below), and print output and errors to Stdout and Stderr
// respectively.
type Context struct {
	context.Context

	Dir    string
	Env    map[string]string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	quiet  bool
}

// DefaultContext returns a Context suitable for use in non-hosted
// situations.
func DefaultContext() (*Context, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Context{
		Context: context.Background(),
		Dir:     abs,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, nil
}

// AbsPath returns an absolute representation of path, with relative
// paths interpreted as relative to ctx.Dir.
func (ctx *Context) AbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ctx.Dir, path)
}

// Getenv looks up an environment variable in the context. It mirrors
// os.Getenv. An empty string is returned if the key is not set.
func (ctx *Context) Getenv(key string) string {
	if value, ok := ctx.Env[key]; ok {
		return value
	}
	return os.Getenv(key)
}

// Infof will write the formatted string to Stderr unless the context
// is quiet.
func (ctx *Context) Infof(format string, params ...any) {
	if ctx.quiet {
		return
	}
	fmt.Fprintf(ctx.Stderr, format+"\n", params...)
}
