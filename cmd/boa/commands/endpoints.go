// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/boaclient/clientconfig"
	"github.com/juju/boaclient/cmd"
)

const endpointsDoc = `
List the Boa endpoints known to the client. The current endpoint,
used when a command is not given --endpoint, is marked with "*".
`

type endpointsCommand struct {
	cmd.CommandBase
	store clientconfig.EndpointGetter
	out   cmd.Output
}

// EndpointInfo is how an endpoint is shown by the endpoints command.
type EndpointInfo struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// EndpointSet is the output of the endpoints command.
type EndpointSet struct {
	Endpoints map[string]EndpointInfo `yaml:"endpoints" json:"endpoints"`
	Current   string                  `yaml:"current-endpoint,omitempty" json:"current-endpoint,omitempty"`
}

func (c *endpointsCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "endpoints",
		Purpose: "List known endpoints.",
		Doc:     endpointsDoc,
	}
}

func (c *endpointsCommand) SetFlags(f *gnuflag.FlagSet) {
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": formatEndpointsTabular,
	})
}

func (c *endpointsCommand) Run(ctx *cmd.Context) error {
	all, err := c.store.AllEndpoints()
	if err != nil {
		return errors.Trace(err)
	}
	set := EndpointSet{Endpoints: make(map[string]EndpointInfo, len(all))}
	for name, details := range all {
		set.Endpoints[name] = EndpointInfo{URL: details.URL, Description: details.Description}
	}
	current, err := c.store.CurrentEndpoint()
	if err != nil && !errors.Is(err, errors.NotFound) {
		return errors.Trace(err)
	}
	set.Current = current
	return c.out.Write(ctx, set)
}

func formatEndpointsTabular(writer io.Writer, value any) error {
	set, ok := value.(EndpointSet)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", set, value)
	}
	names := make([]string, 0, len(set.Endpoints))
	for name := range set.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := cmd.TabWriter(writer)
	fmt.Fprintln(tw, "Endpoint\tURL\tDescription")
	for _, name := range names {
		info := set.Endpoints[name]
		if name == set.Current {
			name += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, info.URL, info.Description)
	}
	return tw.Flush()
}

const addEndpointDoc = `
Add a Boa endpoint, or replace the URL of an existing one. Only https
URLs are accepted.

Examples:

    boa add-endpoint mirror https://boa.example.com/boa/?q=boa/api
`

type addEndpointCommand struct {
	cmd.CommandBase
	store       clientconfig.EndpointUpdater
	name        string
	details     clientconfig.EndpointDetails
	makeCurrent bool
}

func (c *addEndpointCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "add-endpoint",
		Args:    "<name> <url>",
		Purpose: "Add a known endpoint.",
		Doc:     addEndpointDoc,
	}
}

func (c *addEndpointCommand) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.details.Description, "description", "", "Describe the endpoint")
	f.BoolVar(&c.makeCurrent, "switch", false, "Make the endpoint current")
}

func (c *addEndpointCommand) Init(args []string) error {
	switch len(args) {
	case 0:
		return errors.New("no endpoint name specified")
	case 1:
		return errors.New("no endpoint URL specified")
	}
	c.name, c.details.URL = args[0], args[1]
	if err := clientconfig.ValidateEndpointName(c.name); err != nil {
		return errors.Trace(err)
	}
	if err := clientconfig.ValidateEndpointDetails(c.details); err != nil {
		return errors.Trace(err)
	}
	return cmd.CheckEmpty(args[2:])
}

func (c *addEndpointCommand) Run(ctx *cmd.Context) error {
	if err := c.store.UpdateEndpoint(c.name, c.details); err != nil {
		return errors.Trace(err)
	}
	if c.makeCurrent {
		if err := c.store.SetCurrentEndpoint(c.name); err != nil {
			return errors.Trace(err)
		}
	}
	ctx.Infof("Added endpoint %q", c.name)
	return nil
}

type switchEndpointCommand struct {
	cmd.CommandBase
	store clientconfig.EndpointStore
	name  string
}

func (c *switchEndpointCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "switch-endpoint",
		Args:    "<name>",
		Purpose: "Select the current endpoint.",
		Aliases: []string{"switch"},
	}
}

func (c *switchEndpointCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no endpoint name specified")
	}
	c.name = args[0]
	return cmd.CheckEmpty(args[1:])
}

func (c *switchEndpointCommand) Run(ctx *cmd.Context) error {
	old, err := c.store.CurrentEndpoint()
	if err != nil && !errors.Is(err, errors.NotFound) {
		return errors.Trace(err)
	}
	if err := c.store.SetCurrentEndpoint(c.name); err != nil {
		return errors.Trace(err)
	}
	if old == "" {
		ctx.Infof("-> %s", c.name)
	} else {
		ctx.Infof("%s -> %s", old, c.name)
	}
	return nil
}
