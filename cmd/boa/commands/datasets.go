// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/naturalsort"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/cmd"
)

const datasetsDoc = `
List the input datasets a query may be run against. Datasets only
visible to administrators are listed with an "[admin] " prefix.

Examples:

    boa datasets --match github
    boa datasets --admin --format yaml
`

type datasetsCommand struct {
	boaCommandBase
	out       cmd.Output
	adminOnly bool
	match     string
}

func (c *datasetsCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "datasets",
		Purpose: "List input datasets.",
		Doc:     datasetsDoc,
	}
}

func (c *datasetsCommand) SetFlags(f *gnuflag.FlagSet) {
	c.boaCommandBase.SetFlags(f)
	f.BoolVar(&c.adminOnly, "admin", false, "Only list administrator datasets")
	f.StringVar(&c.match, "match", "", "Only list datasets whose name contains this text")
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": formatDatasetsTabular,
	})
}

func (c *datasetsCommand) Run(ctx *cmd.Context) error {
	var filters []api.DatasetFilter
	if c.adminOnly {
		filters = append(filters, api.AdminFilter)
	}
	if c.match != "" {
		filters = append(filters, api.NameContains(c.match))
	}
	var datasets []api.Dataset
	err := c.withClient(ctx, func(client *api.Client) error {
		var err error
		datasets, err = client.Datasets(ctx, filters...)
		return errors.Trace(err)
	})
	if err != nil {
		return errors.Trace(err)
	}
	return c.out.Write(ctx, sortDatasets(datasets))
}

// sortDatasets orders datasets naturally by name, so that "2019" comes
// after "2013" and "10" after "9".
func sortDatasets(datasets []api.Dataset) []api.Dataset {
	names := make([]string, len(datasets))
	for i, d := range datasets {
		names[i] = d.Name
	}
	rank := make(map[string]int, len(names))
	for i, name := range naturalsort.Sort(names) {
		rank[name] = i
	}
	sorted := append([]api.Dataset{}, datasets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank[sorted[i].Name] < rank[sorted[j].Name]
	})
	return sorted
}

func formatDatasetsTabular(writer io.Writer, value any) error {
	datasets, ok := value.([]api.Dataset)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", datasets, value)
	}
	tw := cmd.TabWriter(writer)
	fmt.Fprintln(tw, "ID\tName")
	for _, d := range datasets {
		fmt.Fprintf(tw, "%d\t%s\n", d.ID, d.Name)
	}
	return tw.Flush()
}
