// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api_test

import (
	"context"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/rpc/xmlrpc"
)

type datasetsSuite struct {
	baseSuite
}

var _ = gc.Suite(&datasetsSuite{})

var serviceDatasets = []api.Dataset{
	{ID: 1, Name: "sys"},
	{ID: 2, Name: "2017"},
	{ID: 3, Name: "2018"},
	{ID: 4, Name: "[admin] 2019 Full"},
	{ID: 5, Name: "2019 Small"},
}

func (s *datasetsSuite) expectDatasets(datasets ...api.Dataset) {
	s.expectCall("boa.datasets").Return(datasetsValue(datasets...), nil)
}

func (s *datasetsSuite) TestDatasetsDropsInternal(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectDatasets(serviceDatasets...)

	datasets, err := s.client.Datasets(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(datasets, jc.DeepEquals, serviceDatasets[1:])
}

func (s *datasetsSuite) TestDatasetsAdminFilter(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectDatasets(serviceDatasets...)

	datasets, err := s.client.Datasets(context.Background(), api.AdminFilter)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(datasets, jc.DeepEquals, []api.Dataset{
		{ID: 2, Name: "2017"},
		{ID: 3, Name: "2018"},
		{ID: 5, Name: "2019 Small"},
	})
}

func (s *datasetsSuite) TestDatasetsFiltersNarrowInOrder(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectDatasets(serviceDatasets...)

	var seen []string
	spy := func(d api.Dataset) bool {
		seen = append(seen, d.Name)
		return true
	}
	datasets, err := s.client.Datasets(context.Background(), api.NameContains("2019"), spy, api.AdminFilter)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(datasets, jc.DeepEquals, []api.Dataset{{ID: 5, Name: "2019 Small"}})
	c.Check(seen, jc.DeepEquals, []string{"[admin] 2019 Full", "2019 Small"})
}

func (s *datasetsSuite) TestDatasetsNeverListInternal(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectCall("boa.datasets").Return(datasetsValue(serviceDatasets...), nil).Times(3)

	for _, filters := range [][]api.DatasetFilter{
		nil,
		{api.NameContains("s")},
		{func(api.Dataset) bool { return true }},
	} {
		datasets, err := s.client.Datasets(context.Background(), filters...)
		c.Assert(err, jc.ErrorIsNil)
		for _, d := range datasets {
			c.Check(d.ID, gc.Not(gc.Equals), int64(1))
		}
	}
}

func (s *datasetsSuite) TestDatasetsAcceptsStringIDs(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectCall("boa.datasets").Return(xmlrpc.Array(
		xmlrpc.Struct(
			xmlrpc.Member{Name: "id", Value: xmlrpc.String("1")},
			xmlrpc.Member{Name: "name", Value: xmlrpc.String("sys")},
		),
		xmlrpc.Struct(
			xmlrpc.Member{Name: "id", Value: xmlrpc.String("7")},
			xmlrpc.Member{Name: "name", Value: xmlrpc.String("2022")},
		),
	), nil)

	datasets, err := s.client.Datasets(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(datasets, jc.DeepEquals, []api.Dataset{{ID: 7, Name: "2022"}})
}

func (s *datasetsSuite) TestDatasetsMalformed(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectCall("boa.datasets").Return(xmlrpc.Array(xmlrpc.Struct(
		xmlrpc.Member{Name: "name", Value: xmlrpc.String("2022")},
	)), nil)

	_, err := s.client.Datasets(context.Background())
	c.Assert(err, gc.ErrorMatches, `listing datasets: dataset: member "id" not found`)
}

func (s *datasetsSuite) TestDatasetNames(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectDatasets(append(serviceDatasets, api.Dataset{ID: 6, Name: "2017"})...)

	names, err := s.client.DatasetNames(context.Background(), api.AdminFilter)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(names, jc.DeepEquals, []string{"2017", "2018", "2019 Small"})
}

func (s *datasetsSuite) TestDatasetExactMatch(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectDatasets(serviceDatasets...)

	d, err := s.client.Dataset(context.Background(), "2018")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(d, gc.Equals, api.Dataset{ID: 3, Name: "2018"})
}

func (s *datasetsSuite) TestDatasetIgnoresAdminPrefix(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectCall("boa.datasets").Return(datasetsValue(serviceDatasets...), nil).Times(2)

	d, err := s.client.Dataset(context.Background(), "2019 Full")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(d, gc.Equals, api.Dataset{ID: 4, Name: "[admin] 2019 Full"})

	d, err = s.client.Dataset(context.Background(), "[admin] 2019 Small")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(d, gc.Equals, api.Dataset{ID: 5, Name: "2019 Small"})
}

func (s *datasetsSuite) TestDatasetAmbiguous(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectDatasets(
		api.Dataset{ID: 2, Name: "X"},
		api.Dataset{ID: 3, Name: "[admin] X"},
	)

	_, err := s.client.Dataset(context.Background(), "X")
	c.Assert(err, jc.Satisfies, api.IsAmbiguousDataset)
	c.Check(err, jc.Satisfies, errors.IsNotFound)
	c.Check(err, gc.ErrorMatches, `dataset "X" is ambiguous: matches "X", "\[admin\] X"`)
}

func (s *datasetsSuite) TestDatasetNotFound(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectDatasets(serviceDatasets...)

	_, err := s.client.Dataset(context.Background(), "sys")
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
	c.Check(err, jc.Satisfies, func(err error) bool { return !api.IsAmbiguousDataset(err) })
}
