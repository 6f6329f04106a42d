// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("boa.cmd")

// SuperCommandParams provides a way to have default parameter to the
// NewSuperCommand call.
type SuperCommandParams struct {
	Name    string
	Purpose string
	Doc     string
	Version string

	// Log holds the logging flags. A nil Log leaves logging alone.
	Log *Log
}

// SuperCommand is a Command that selects a subcommand and assumes its
// properties; any command line arguments that were not used in selecting
// the subcommand are passed down to it, and to Run a SuperCommand is to
// run its selected subcommand.
type SuperCommand struct {
	CommandBase
	Name    string
	Purpose string
	Doc     string
	version string
	log     *Log

	subcmds     map[string]Command
	names       map[string]string
	subcmd      Command
	subcmdFlags *gnuflag.FlagSet
	showHelp    bool
	showVersion bool
}

// NewSuperCommand creates and initializes a new SuperCommand, and
// returns the fully initialized structure.
func NewSuperCommand(params SuperCommandParams) *SuperCommand {
	return &SuperCommand{
		Name:    params.Name,
		Purpose: params.Purpose,
		Doc:     params.Doc,
		version: params.Version,
		log:     params.Log,
		subcmds: make(map[string]Command),
		names:   make(map[string]string),
	}
}

// Register makes a subcommand available for use on the command line.
// The command will be available via its own name, and via any supplied
// aliases.
func (c *SuperCommand) Register(subcmd Command) {
	info := subcmd.Info()
	for _, name := range append([]string{info.Name}, info.Aliases...) {
		if _, found := c.subcmds[name]; found {
			panic(fmt.Sprintf("command already registered: %q", name))
		}
		c.subcmds[name] = subcmd
		c.names[name] = info.Name
	}
}

// Info returns a description of the currently selected subcommand, or
// of the SuperCommand itself if no subcommand has been specified.
func (c *SuperCommand) Info() *Info {
	if c.subcmd != nil {
		info := *c.subcmd.Info()
		info.Name = c.Name + " " + info.Name
		return &info
	}
	return &Info{
		Name:    c.Name,
		Args:    "<command> ...",
		Purpose: c.Purpose,
		Doc:     strings.TrimSpace(c.Doc + "\n\n" + c.describeCommands()),
	}
}

func (c *SuperCommand) describeCommands() string {
	var names []string
	width := 0
	for name, canonical := range c.names {
		if name != canonical {
			continue
		}
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)
	lines := []string{"Commands:"}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("    %-*s  %s", width, name, c.subcmds[name].Info().Purpose))
	}
	return strings.Join(lines, "\n")
}

// SetFlags adds the options that apply to all commands, particularly
// those due to logging.
func (c *SuperCommand) SetFlags(f *gnuflag.FlagSet) {
	if c.log != nil {
		c.log.AddFlags(f)
	}
	f.BoolVar(&c.showHelp, "h", false, "Show help on a command")
	f.BoolVar(&c.showHelp, "help", false, "")
	if c.version != "" {
		f.BoolVar(&c.showVersion, "version", false, "Show the version")
	}
}

// AllowInterspersedFlags returns false so that flags following the
// subcommand name are parsed by the subcommand.
func (c *SuperCommand) AllowInterspersedFlags() bool {
	return false
}

// Init initializes the command for running.
func (c *SuperCommand) Init(args []string) error {
	if c.showVersion || c.showHelp && len(args) == 0 {
		return nil
	}
	if len(args) == 0 {
		return errors.New("no command specified")
	}
	name, args := args[0], args[1:]
	if name == "help" {
		c.showHelp = true
		if len(args) == 0 {
			return nil
		}
		name, args = args[0], args[1:]
	}
	subcmd, found := c.subcmds[name]
	if !found {
		return errors.Errorf("unrecognized command: %s %s", c.Name, name)
	}
	c.subcmd = subcmd
	c.subcmdFlags = NewFlagSet(subcmd)
	if c.log != nil {
		c.log.AddFlags(c.subcmdFlags)
	}
	if c.showHelp {
		return nil
	}
	if err := c.subcmdFlags.Parse(subcmd.AllowInterspersedFlags(), args); err != nil {
		return err
	}
	return subcmd.Init(c.subcmdFlags.Args())
}

// Run executes the subcommand that was selected in Init.
func (c *SuperCommand) Run(ctx *Context) error {
	switch {
	case c.showVersion:
		_, err := fmt.Fprintln(ctx.Stdout, c.version)
		return err
	case c.showHelp && c.subcmd == nil:
		_, err := ctx.Stdout.Write(c.Info().Help(NewFlagSet(c)))
		return err
	case c.showHelp:
		info := c.Info()
		_, err := ctx.Stdout.Write(info.Help(c.subcmdFlags))
		return err
	case c.subcmd == nil:
		return errors.New("no command selected")
	}
	if c.log != nil {
		if err := c.log.Start(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	logger.Debugf("running %s %s", c.Name, c.names[c.subcmd.Info().Name])
	return c.subcmd.Run(ctx)
}
