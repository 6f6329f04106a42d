// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/boaclient/rpc/xmlrpc"
)

// AdminPrefix marks the name of a dataset restricted to administrators.
const AdminPrefix = "[admin] "

// internalDatasetID is reserved by the service and never listed.
const internalDatasetID = 1

// Dataset is an input a query can run against.
type Dataset struct {
	ID   int64  `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// String implements fmt.Stringer.
func (d Dataset) String() string {
	return fmt.Sprintf("%s (%d)", d.Name, d.ID)
}

// IsAdmin reports whether the dataset is restricted to administrators.
func (d Dataset) IsAdmin() bool {
	return strings.HasPrefix(d.Name, AdminPrefix)
}

// DatasetFilter reports whether a dataset should be kept in a listing.
type DatasetFilter func(Dataset) bool

// AdminFilter drops datasets restricted to administrators.
func AdminFilter(d Dataset) bool {
	return !d.IsAdmin()
}

// NameContains returns a filter keeping datasets whose name contains s,
// ignoring case.
func NameContains(s string) DatasetFilter {
	s = strings.ToLower(s)
	return func(d Dataset) bool {
		return strings.Contains(strings.ToLower(d.Name), s)
	}
}

// Datasets returns the datasets available to the session, in the order
// the service lists them. Each filter narrows the result of the one
// before it.
func (c *Client) Datasets(ctx context.Context, filters ...DatasetFilter) ([]Dataset, error) {
	result, err := c.caller.Call(ctx, "boa.datasets")
	if err != nil {
		return nil, errors.Annotate(err, "listing datasets")
	}
	items, err := result.Items()
	if err != nil {
		return nil, errors.Annotate(err, "listing datasets")
	}
	datasets := make([]Dataset, 0, len(items))
	for _, item := range items {
		d, err := parseDataset(item)
		if err != nil {
			return nil, errors.Annotate(err, "listing datasets")
		}
		if d.ID == internalDatasetID {
			continue
		}
		datasets = append(datasets, d)
	}
	for _, keep := range filters {
		kept := datasets[:0]
		for _, d := range datasets {
			if keep(d) {
				kept = append(kept, d)
			}
		}
		datasets = kept
	}
	return datasets, nil
}

// DatasetNames returns the distinct names of the filtered datasets, in
// listing order.
func (c *Client) DatasetNames(ctx context.Context, filters ...DatasetFilter) ([]string, error) {
	datasets, err := c.Datasets(ctx, filters...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	seen := set.NewStrings()
	names := make([]string, 0, len(datasets))
	for _, d := range datasets {
		if seen.Contains(d.Name) {
			continue
		}
		seen.Add(d.Name)
		names = append(names, d.Name)
	}
	return names, nil
}

// Dataset returns the dataset with the given name. The administrator
// prefix is ignored on both sides, so "X" matches "[admin] X". It is an
// error for the name to match no dataset or several.
func (c *Client) Dataset(ctx context.Context, name string) (Dataset, error) {
	datasets, err := c.Datasets(ctx)
	if err != nil {
		return Dataset{}, errors.Trace(err)
	}
	want := strings.TrimPrefix(name, AdminPrefix)
	var matches []Dataset
	for _, d := range datasets {
		if d.Name == name || strings.TrimPrefix(d.Name, AdminPrefix) == want {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return Dataset{}, errors.NotFoundf("dataset %q", name)
	case 1:
		return matches[0], nil
	}
	return Dataset{}, &AmbiguousDatasetError{Name: name, Matches: matches}
}

func parseDataset(v xmlrpc.Value) (Dataset, error) {
	idValue, err := member(v, "id")
	if err != nil {
		return Dataset{}, errors.Annotate(err, "dataset")
	}
	id, err := asInt(idValue)
	if err != nil {
		return Dataset{}, errors.Annotate(err, "dataset id")
	}
	nameValue, err := member(v, "name")
	if err != nil {
		return Dataset{}, errors.Annotate(err, "dataset")
	}
	name, err := asText(nameValue)
	if err != nil {
		return Dataset{}, errors.Annotate(err, "dataset name")
	}
	return Dataset{ID: id, Name: name}, nil
}
