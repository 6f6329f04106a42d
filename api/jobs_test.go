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

type jobsSuite struct {
	baseSuite
}

var _ = gc.Suite(&jobsSuite{})

func (s *jobsSuite) TestSubmitDefaultsToFirstDataset(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.datasets").Return(datasetsValue(
		api.Dataset{ID: 1, Name: "sys"},
		api.Dataset{ID: 2, Name: "2017"},
		api.Dataset{ID: 3, Name: "2018"},
	), nil)
	s.expectCall("boa.submit", xmlrpc.String("select... "), xmlrpc.Int(2)).Return(jobValue(42, "Waiting", "Waiting"), nil)

	job, err := s.client.Submit(context.Background(), "select... ", nil)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(job.ID(), gc.Equals, int64(42))
	c.Check(job.Input(), gc.Equals, api.Dataset{ID: 2, Name: "2017"})
	c.Check(job.CompilerStatus(), gc.Equals, api.StatusWaiting)
	c.Check(job.OutputCap(), gc.Equals, int64(api.DefaultOutputCap))
}

func (s *jobsSuite) TestSubmitToDataset(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.submit", xmlrpc.String("q"), xmlrpc.Int(3)).Return(jobValue(43, "Running", "Waiting"), nil)

	job, err := s.client.Submit(context.Background(), "q", &api.Dataset{ID: 3, Name: "2018"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(job.ID(), gc.Equals, int64(43))
}

func (s *jobsSuite) TestSubmitWithoutDatasets(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.datasets").Return(datasetsValue(api.Dataset{ID: 1, Name: "sys"}), nil)

	_, err := s.client.Submit(context.Background(), "q", nil)
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (s *jobsSuite) TestSubmitFault(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.submit", xmlrpc.String("q"), xmlrpc.Int(3)).Return(
		xmlrpc.Value{}, &xmlrpc.Fault{Code: 403, Message: "access denied"})

	_, err := s.client.Submit(context.Background(), "q", &api.Dataset{ID: 3, Name: "2018"})
	c.Assert(err, jc.Satisfies, xmlrpc.IsFault)
	c.Check(err, gc.ErrorMatches, `submitting query to "2018": fault 403: access denied`)
}

func (s *jobsSuite) TestJob(c *gc.C) {
	defer s.setupMocks(c).Finish()

	job := s.newJob(c, 42, "Finished", "Running")
	c.Check(job.ID(), gc.Equals, int64(42))
	c.Check(job.Submitted(), gc.Equals, "2024-03-01 10:20:30")
	c.Check(job.Input(), gc.Equals, api.Dataset{ID: 2, Name: "2017"})
	c.Check(job.CompilerStatus(), gc.Equals, api.StatusFinished)
	c.Check(job.ExecutionStatus(), gc.Equals, api.StatusRunning)
}

func (s *jobsSuite) TestJobBadStatus(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.job", xmlrpc.Int(42)).Return(jobValue(42, "Compiling", "Waiting"), nil)

	_, err := s.client.Job(context.Background(), 42)
	c.Assert(err, gc.ErrorMatches, `job 42: compiler: status "Compiling" not valid`)
}

func (s *jobsSuite) TestJobs(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.jobs", xmlrpc.Bool(true), xmlrpc.Int(10), xmlrpc.Int(2)).Return(xmlrpc.Array(
		jobValue(12, "Finished", "Finished"),
		jobValue(11, "Error", "Waiting"),
	), nil)

	jobs, err := s.client.Jobs(context.Background(), true, 10, 2)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(jobs, gc.HasLen, 2)
	c.Check(jobs[0].ID(), gc.Equals, int64(12))
	c.Check(jobs[1].ID(), gc.Equals, int64(11))
	c.Check(jobs[1].CompilerStatus(), gc.Equals, api.StatusError)
}

func (s *jobsSuite) TestJobsInvalidRange(c *gc.C) {
	defer s.setupMocks(c).Finish()

	_, err := s.client.Jobs(context.Background(), false, -1, 10)
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
}

func (s *jobsSuite) TestJobCount(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.count", xmlrpc.Bool(false)).Return(xmlrpc.String("17"), nil)

	count, err := s.client.JobCount(context.Background(), false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(count, gc.Equals, int64(17))
}

func (s *jobsSuite) TestLastJob(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.jobs", xmlrpc.Bool(false), xmlrpc.Int(0), xmlrpc.Int(1)).Return(xmlrpc.Array(
		jobValue(12, "Finished", "Finished"),
	), nil)

	job, err := s.client.LastJob(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(job.ID(), gc.Equals, int64(12))
}

func (s *jobsSuite) TestLastJobNone(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectCall("boa.jobs", xmlrpc.Bool(false), xmlrpc.Int(0), xmlrpc.Int(1)).Return(xmlrpc.Array(), nil)

	_, err := s.client.LastJob(context.Background())
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}
