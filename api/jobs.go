// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/boaclient/rpc/xmlrpc"
)

// Submit submits query to run against dataset and returns a handle on
// the new job. A nil dataset means the first dataset the service lists.
func (c *Client) Submit(ctx context.Context, query string, dataset *Dataset) (*Job, error) {
	if dataset == nil {
		datasets, err := c.Datasets(ctx)
		if err != nil {
			return nil, errors.Annotate(err, "choosing default dataset")
		}
		if len(datasets) == 0 {
			return nil, errors.NotFoundf("default dataset")
		}
		dataset = &datasets[0]
	}
	result, err := c.caller.Call(ctx, "boa.submit", xmlrpc.String(query), xmlrpc.Int(dataset.ID))
	if err != nil {
		return nil, errors.Annotatef(err, "submitting query to %q", dataset.Name)
	}
	job, err := c.parseJob(result)
	if err != nil {
		return nil, errors.Annotate(err, "submitting query")
	}
	logger.Debugf("submitted job %d on %s", job.ID(), dataset)
	return job, nil
}

// Job returns a handle on the job with the given id.
func (c *Client) Job(ctx context.Context, id int64) (*Job, error) {
	result, err := c.getJob(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return c.parseJob(result)
}

// Jobs returns up to limit of the session user's jobs, most recent
// first, skipping the first offset. When publicOnly is set only public
// jobs are listed.
func (c *Client) Jobs(ctx context.Context, publicOnly bool, offset, limit int64) ([]*Job, error) {
	if offset < 0 || limit < 0 {
		return nil, errors.NotValidf("job range offset %d limit %d", offset, limit)
	}
	result, err := c.caller.Call(ctx, "boa.jobs", xmlrpc.Bool(publicOnly), xmlrpc.Int(offset), xmlrpc.Int(limit))
	if err != nil {
		return nil, errors.Annotate(err, "listing jobs")
	}
	items, err := result.Items()
	if err != nil {
		return nil, errors.Annotate(err, "listing jobs")
	}
	jobs := make([]*Job, len(items))
	for i, item := range items {
		if jobs[i], err = c.parseJob(item); err != nil {
			return nil, errors.Annotate(err, "listing jobs")
		}
	}
	return jobs, nil
}

// JobCount returns the number of jobs the session user has, or the
// number of public ones.
func (c *Client) JobCount(ctx context.Context, publicOnly bool) (int64, error) {
	result, err := c.caller.Call(ctx, "boa.count", xmlrpc.Bool(publicOnly))
	if err != nil {
		return 0, errors.Annotate(err, "counting jobs")
	}
	count, err := asInt(result)
	return count, errors.Annotate(err, "counting jobs")
}

// LastJob returns the most recently submitted job.
func (c *Client) LastJob(ctx context.Context) (*Job, error) {
	jobs, err := c.Jobs(ctx, false, 0, 1)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(jobs) == 0 {
		return nil, errors.NotFoundf("last job")
	}
	return jobs[0], nil
}

func (c *Client) getJob(ctx context.Context, id int64) (xmlrpc.Value, error) {
	result, err := c.caller.Call(ctx, "boa.job", xmlrpc.Int(id))
	return result, errors.Annotatef(err, "getting job %d", id)
}

// jobCall invokes one of the job scoped methods.
func (c *Client) jobCall(ctx context.Context, method string, id int64, args ...xmlrpc.Value) (xmlrpc.Value, error) {
	result, err := c.caller.Call(ctx, method, append([]xmlrpc.Value{xmlrpc.Int(id)}, args...)...)
	if err != nil {
		return xmlrpc.Value{}, errors.Annotatef(err, "job %d", id)
	}
	return result, nil
}

func (c *Client) jobText(ctx context.Context, method string, id int64) (string, error) {
	result, err := c.jobCall(ctx, method, id)
	if err != nil {
		return "", errors.Trace(err)
	}
	s, err := asText(result)
	return s, errors.Annotatef(err, "%s of job %d", method, id)
}

func (c *Client) jobURL(ctx context.Context, id int64) (string, error) {
	return c.jobText(ctx, "job.url", id)
}

func (c *Client) jobPublicURL(ctx context.Context, id int64) (string, error) {
	return c.jobText(ctx, "job.publicurl", id)
}

func (c *Client) jobPublic(ctx context.Context, id int64) (bool, error) {
	result, err := c.jobCall(ctx, "job.public", id)
	if err != nil {
		return false, errors.Trace(err)
	}
	public, err := asBool(result)
	return public, errors.Annotatef(err, "public flag of job %d", id)
}

func (c *Client) jobSetPublic(ctx context.Context, id int64, public bool) error {
	_, err := c.jobCall(ctx, "job.setpublic", id, xmlrpc.Bool(public))
	return errors.Trace(err)
}

func (c *Client) jobSource(ctx context.Context, id int64) (string, error) {
	return c.jobText(ctx, "job.source", id)
}

func (c *Client) jobCompilerErrors(ctx context.Context, id int64) (string, error) {
	return c.jobText(ctx, "job.compilerErrors", id)
}

// jobOutputURL returns where the job's output can be downloaded from.
func (c *Client) jobOutputURL(ctx context.Context, id int64) (string, error) {
	return c.jobText(ctx, "job.output", id)
}

func (c *Client) jobOutputSize(ctx context.Context, id int64) (int64, error) {
	result, err := c.jobCall(ctx, "job.outputsize", id)
	if err != nil {
		return 0, errors.Trace(err)
	}
	size, err := asInt(result)
	return size, errors.Annotatef(err, "output size of job %d", id)
}

func (c *Client) jobDelete(ctx context.Context, id int64) error {
	_, err := c.jobCall(ctx, "job.delete", id)
	return errors.Trace(err)
}

func (c *Client) jobResubmit(ctx context.Context, id int64) error {
	_, err := c.jobCall(ctx, "job.resubmit", id)
	return errors.Trace(err)
}

func (c *Client) jobStop(ctx context.Context, id int64) error {
	_, err := c.jobCall(ctx, "job.stop", id)
	return errors.Trace(err)
}
