// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	"github.com/klauspost/compress/gzip"
	gc "gopkg.in/check.v1"

	"github.com/juju/boaclient/api"
	"github.com/juju/boaclient/rpc/xmlrpc"
)

type outputSuite struct {
	baseSuite

	server  *httptest.Server
	content []byte

	mu       sync.Mutex
	requests []*http.Request
}

var _ = gc.Suite(&outputSuite{})

func (s *outputSuite) SetUpTest(c *gc.C) {
	s.baseSuite.SetUpTest(c)
	s.content = bytes.Repeat([]byte("0123456789"), 500)
	s.requests = nil
	s.server = httptest.NewServer(http.HandlerFunc(s.serveOutput))
	s.AddCleanup(func(*gc.C) { s.server.Close() })
}

// serveOutput serves the output with range support, gzip encoding
// whole responses when the client accepts it.
func (s *outputSuite) serveOutput(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Clone(context.Background()))
	s.mu.Unlock()

	if r.URL.Path == "/whole/42" {
		w.Header().Set("Content-Length", strconv.Itoa(len(s.content)))
		_, _ = w.Write(s.content)
		return
	}
	if r.URL.Path != "/output/42" {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("Range") == "" && strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		_, _ = zw.Write(s.content)
		_ = zw.Close()
		return
	}
	http.ServeContent(w, r, "output.txt", time.Time{}, bytes.NewReader(s.content))
}

func (s *outputSuite) lastRequest(c *gc.C) *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Assert(s.requests, gc.Not(gc.HasLen), 0)
	return s.requests[len(s.requests)-1]
}

func (s *outputSuite) finishedJob(c *gc.C) *api.Job {
	job := s.newJob(c, 42, "Finished", "Finished")
	s.expectCall("job.output", xmlrpc.Int(42)).Return(xmlrpc.String(s.server.URL+"/output/42"), nil).AnyTimes()
	return job
}

func (s *outputSuite) TestOutputIsCapped(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.finishedJob(c)
	job.SetOutputCap(1000)

	out, err := job.Output(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(out[:1000], gc.Equals, string(s.content[:1000]))
	c.Check(out[1000:], gc.Equals, api.TruncationNotice(1000))
	c.Check(out[1000:], jc.Contains, "1k")

	req := s.lastRequest(c)
	c.Check(req.Header.Get("Range"), gc.Equals, "bytes=0-999")
	c.Check(req.Header.Get("Accept-Encoding"), gc.Equals, "identity")
}

func (s *outputSuite) TestOutputUnderCap(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.finishedJob(c)

	out, err := job.Output(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(out, gc.Equals, string(s.content))
}

func (s *outputSuite) TestOutputFullUsesGzip(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.finishedJob(c)

	out, err := job.OutputFull(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(out, gc.Equals, string(s.content))

	req := s.lastRequest(c)
	c.Check(req.Header.Get("Range"), gc.Equals, "")
	c.Check(req.Header.Get("Accept-Encoding"), gc.Equals, "gzip")
}

func (s *outputSuite) TestWriteOutput(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.finishedJob(c)

	var buf bytes.Buffer
	n, err := job.WriteOutput(context.Background(), &buf)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(n, gc.Equals, int64(len(s.content)))
	c.Check(buf.Bytes(), jc.DeepEquals, s.content)
}

func (s *outputSuite) TestOutputRange(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.finishedJob(c)

	out, err := job.OutputRange(context.Background(), 4990, 0)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(out, gc.Equals, "0123456789")
	c.Check(s.lastRequest(c).Header.Get("Range"), gc.Equals, "bytes=4990-")

	out, err = job.OutputRange(context.Background(), 4995, 100)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(out, gc.Equals, "56789")
}

func (s *outputSuite) TestOutputRangeBeyondEnd(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.finishedJob(c)

	_, err := job.OutputRange(context.Background(), 6000, 10)
	c.Assert(errors.Is(err, api.ErrRangeNotSatisfiable), jc.IsTrue, gc.Commentf("%v", err))
}

func (s *outputSuite) TestOutputRangeInvalid(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.finishedJob(c)

	_, err := job.OutputRange(context.Background(), -1, 10)
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
}

func (s *outputSuite) TestOutputWhileRunning(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.newJob(c, 42, "Finished", "Running")

	_, err := job.Output(context.Background())
	c.Check(errors.Is(err, api.ErrJobRunning), jc.IsTrue)
	_, err = job.OutputFull(context.Background())
	c.Check(errors.Is(err, api.ErrJobRunning), jc.IsTrue)
	_, err = job.OutputSize(context.Background())
	c.Check(errors.Is(err, api.ErrJobRunning), jc.IsTrue)
	c.Check(s.requests, gc.HasLen, 0)
}

func (s *outputSuite) TestOutputSize(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.newJob(c, 42, "Finished", "Finished")
	s.expectCall("job.outputsize", xmlrpc.Int(42)).Return(xmlrpc.Int(5000), nil)

	size, err := job.OutputSize(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(size, gc.Equals, int64(5000))
}

func (s *outputSuite) TestOutputFetchFailure(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.newJob(c, 42, "Finished", "Finished")
	s.expectCall("job.output", xmlrpc.Int(42)).Return(xmlrpc.String(s.server.URL+"/missing"), nil)

	_, err := job.Output(context.Background())
	c.Assert(err, gc.ErrorMatches, `fetching output of job 42: 404 Not Found`)
}

func (s *outputSuite) TestCompactSize(c *gc.C) {
	for _, test := range []struct {
		size int64
		text string
	}{
		{0, "0"},
		{500, "500"},
		{1000, "1k"},
		{1500, "1.5k"},
		{api.DefaultOutputCap, "64Ki"},
		{1024 * 1024, "1Mi"},
		{2048000, "2.048M"},
		{2500000, "2.5M"},
		{1234567, "1.234567M"},
		{1234567891, "1234567891"},
	} {
		c.Check(api.CompactSize(test.size), gc.Equals, test.text, gc.Commentf("size %d", test.size))
	}
}

func (s *outputSuite) TestTruncationNoticeNamesCap(c *gc.C) {
	c.Check(api.TruncationNotice(api.DefaultOutputCap), gc.Equals, "\n... output truncated to 64KiB ...\n")
	c.Check(api.TruncationNotice(2500000), gc.Equals, "\n... output truncated to 2.5MB ...\n")
	c.Check(api.TruncationNotice(1000), gc.Equals, "\n... output truncated to 1kB ...\n")
}

func (s *outputSuite) TestRangeIgnoredByServer(c *gc.C) {
	defer s.setupMocksWithHTTP(c, s.server.Client()).Finish()
	job := s.newJob(c, 42, "Finished", "Finished")
	s.expectCall("job.output", xmlrpc.Int(42)).Return(xmlrpc.String(s.server.URL+"/whole/42"), nil).AnyTimes()

	out, err := job.OutputRange(context.Background(), 4990, 10)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(out, gc.Equals, "0123456789")

	for _, start := range []int64{5000, 6000} {
		_, err = job.OutputRange(context.Background(), start, 10)
		c.Check(errors.Is(err, api.ErrRangeNotSatisfiable), jc.IsTrue, gc.Commentf("start %d", start))
	}
}
