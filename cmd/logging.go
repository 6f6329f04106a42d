// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
)

// Log supplies the necessary functionality for Commands that wish to
// set up logging.
type Log struct {
	// DefaultConfig is the logging configuration used when no
	// --logging-config flag is given, typically read from the
	// environment.
	DefaultConfig string

	Verbose bool
	Quiet   bool
	Debug   bool
	Config  string
}

// AddFlags adds appropriate flags to f. Values already set, by flags
// parsed into another flag set, are kept as the defaults.
func (l *Log) AddFlags(f *gnuflag.FlagSet) {
	if l.Config == "" {
		l.Config = l.DefaultConfig
	}
	f.BoolVar(&l.Verbose, "verbose", l.Verbose, "Show more verbose output")
	f.BoolVar(&l.Quiet, "quiet", l.Quiet, "Show no informational output")
	f.BoolVar(&l.Debug, "debug", l.Debug, "Equivalent to --verbose --logging-config=<root>=DEBUG")
	f.StringVar(&l.Config, "logging-config", l.Config, "Specify log levels for modules")
}

// Start starts logging to the context's stderr, using the configured
// levels.
func (l *Log) Start(ctx *Context) error {
	if l.Verbose && l.Quiet {
		return errors.New(`"verbose" and "quiet" flags clash, please use one or the other, not both`)
	}
	ctx.quiet = l.Quiet

	level := loggo.WARNING
	switch {
	case l.Debug:
		level = loggo.DEBUG
	case l.Verbose:
		level = loggo.INFO
	}
	writer := loggo.NewMinimumLevelWriter(loggo.NewSimpleWriter(ctx.Stderr, loggo.DefaultFormatter), level)
	if _, err := loggo.ReplaceDefaultWriter(writer); err != nil {
		return errors.Trace(err)
	}

	config := l.Config
	if l.Debug {
		config = "<root>=DEBUG;" + config
	}
	if config == "" {
		return nil
	}
	// Later entries win, so the explicit configuration overrides --debug.
	if err := loggo.ConfigureLoggers(config); err != nil {
		return errors.Annotate(err, "invalid logging config")
	}
	return nil
}
