// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api_test

import (
	"time"

	jc "github.com/juju/testing/checkers"
	"github.com/juju/worker/v4/workertest"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/rpc/xmlrpc"
)

type watcherSuite struct {
	baseSuite
}

var _ = gc.Suite(&watcherSuite{})

func (s *watcherSuite) nextStatus(c *gc.C, w *api.StatusWatcher) api.JobStatus {
	select {
	case status, ok := <-w.Changes():
		c.Assert(ok, jc.IsTrue)
		return status
	case <-time.After(longWait):
		c.Fatalf("timed out waiting for status change")
	}
	panic("unreachable")
}

func (s *watcherSuite) assertClosed(c *gc.C, w *api.StatusWatcher) {
	select {
	case _, ok := <-w.Changes():
		c.Assert(ok, jc.IsFalse)
	case <-time.After(longWait):
		c.Fatalf("timed out waiting for watcher to finish")
	}
}

func (s *watcherSuite) TestReportsChangesUntilDone(c *gc.C) {
	defer s.setupMocks(c).Finish()

	job := s.newJob(c, 42, "Running", "Waiting")
	gomock.InOrder(
		s.expectCall("boa.job", xmlrpc.Int(42)).Return(jobValue(42, "Running", "Waiting"), nil),
		s.expectCall("boa.job", xmlrpc.Int(42)).Return(jobValue(42, "Finished", "Running"), nil),
		s.expectCall("boa.job", xmlrpc.Int(42)).Return(jobValue(42, "Finished", "Finished"), nil),
	)

	w := api.NewStatusWatcher(job, s.clock, time.Second)
	c.Check(s.nextStatus(c, w).Compiler, gc.Equals, api.StatusRunning)

	// The first refresh sees no change, so nothing is reported.
	c.Assert(s.clock.WaitAdvance(time.Second, longWait, 1), jc.ErrorIsNil)
	c.Assert(s.clock.WaitAdvance(time.Second, longWait, 1), jc.ErrorIsNil)
	status := s.nextStatus(c, w)
	c.Check(status.Execution, gc.Equals, api.StatusRunning)

	c.Assert(s.clock.WaitAdvance(time.Second, longWait, 1), jc.ErrorIsNil)
	status = s.nextStatus(c, w)
	c.Check(status.Running(), jc.IsFalse)
	c.Check(status.Succeeded(), jc.IsTrue)

	s.assertClosed(c, w)
	c.Assert(w.Wait(), jc.ErrorIsNil)
}

func (s *watcherSuite) TestFinishedJob(c *gc.C) {
	defer s.setupMocks(c).Finish()

	job := s.newJob(c, 42, "Error", "Waiting")
	w := api.NewStatusWatcher(job, s.clock, time.Second)
	c.Check(s.nextStatus(c, w).Compiler, gc.Equals, api.StatusError)
	s.assertClosed(c, w)
	c.Assert(w.Wait(), jc.ErrorIsNil)
}

func (s *watcherSuite) TestKill(c *gc.C) {
	defer s.setupMocks(c).Finish()

	job := s.newJob(c, 42, "Running", "Waiting")
	w := api.NewStatusWatcher(job, s.clock, time.Second)
	s.nextStatus(c, w)
	workertest.CheckAlive(c, w)

	workertest.CleanKill(c, w)
	s.assertClosed(c, w)
}

func (s *watcherSuite) TestStop(c *gc.C) {
	defer s.setupMocks(c).Finish()

	job := s.newJob(c, 42, "Running", "Waiting")
	w := api.NewStatusWatcher(job, s.clock, time.Second)
	c.Assert(w.Stop(), jc.ErrorIsNil)
	s.assertClosed(c, w)
}

func (s *watcherSuite) TestRefreshError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	job := s.newJob(c, 42, "Running", "Waiting")
	s.expectCall("boa.job", xmlrpc.Int(42)).Return(xmlrpc.Value{}, &xmlrpc.Fault{Code: 404, Message: "no such job"})

	w := api.NewStatusWatcher(job, s.clock, time.Second)
	s.nextStatus(c, w)
	c.Assert(s.clock.WaitAdvance(time.Second, longWait, 1), jc.ErrorIsNil)

	s.assertClosed(c, w)
	err := workertest.CheckKilled(c, w)
	c.Assert(err, gc.ErrorMatches, `getting job 42: fault 404: no such job`)
}
