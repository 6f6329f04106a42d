// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/juju/errors"

	"github.com/juju/boaclient/rpc/xmlrpc"
)

// Status is the state of one stage of a job: compilation or execution.
type Status string

const (
	StatusWaiting  Status = "Waiting"
	StatusRunning  Status = "Running"
	StatusFinished Status = "Finished"
	StatusError    Status = "Error"
)

// Active reports whether the stage has yet to end.
func (s Status) Active() bool {
	return s == StatusWaiting || s == StatusRunning
}

func parseStatus(v xmlrpc.Value) (Status, error) {
	s, err := asText(v)
	if err != nil {
		return "", errors.Trace(err)
	}
	for _, status := range []Status{StatusWaiting, StatusRunning, StatusFinished, StatusError} {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", errors.NotValidf("status %q", s)
}

// CompilerStatus is the state of a job's compilation.
type CompilerStatus = Status

// ExecutionStatus is the state of a job's execution.
type ExecutionStatus = Status

// PollInterval is how long Wait pauses between refreshes.
const PollInterval = 2 * time.Second

// DefaultOutputCap is how much of a job's output Output fetches unless
// changed with SetOutputCap.
const DefaultOutputCap = 64 * 1024

// JobStatus is a snapshot of the mutable part of a job.
type JobStatus struct {
	Submitted string          `yaml:"submitted" json:"submitted"`
	Compiler  CompilerStatus  `yaml:"compiler" json:"compiler"`
	Execution ExecutionStatus `yaml:"execution" json:"execution"`
}

// Running reports whether the job has work left to do.
func (s JobStatus) Running() bool {
	return s.Compiler == StatusRunning ||
		s.Execution == StatusRunning ||
		s.Compiler == StatusWaiting ||
		(s.Execution == StatusWaiting && s.Compiler == StatusFinished)
}

// Succeeded reports whether neither stage ended in error.
func (s JobStatus) Succeeded() bool {
	return s.Compiler != StatusError && s.Execution != StatusError
}

// Job is a handle on a job submitted to the service. The status it
// reports is the one last fetched; Refresh fetches it again.
type Job struct {
	client *Client
	id     int64
	input  Dataset

	mu        sync.Mutex
	status    JobStatus
	outputCap int64
}

func (c *Client) parseJob(v xmlrpc.Value) (*Job, error) {
	idValue, err := member(v, "id")
	if err != nil {
		return nil, errors.Annotate(err, "job")
	}
	id, err := asInt(idValue)
	if err != nil {
		return nil, errors.Annotate(err, "job id")
	}
	inputValue, err := member(v, "input")
	if err != nil {
		return nil, errors.Annotatef(err, "job %d", id)
	}
	input, err := parseDataset(inputValue)
	if err != nil {
		return nil, errors.Annotatef(err, "input of job %d", id)
	}
	status, err := parseJobStatus(v)
	if err != nil {
		return nil, errors.Annotatef(err, "job %d", id)
	}
	return &Job{
		client:    c,
		id:        id,
		input:     input,
		status:    status,
		outputCap: DefaultOutputCap,
	}, nil
}

func parseJobStatus(v xmlrpc.Value) (JobStatus, error) {
	var status JobStatus
	submitted, err := member(v, "submitted")
	if err != nil {
		return status, errors.Trace(err)
	}
	if status.Submitted, err = asText(submitted); err != nil {
		return status, errors.Annotate(err, "submitted")
	}
	compiler, err := member(v, "compiler_status")
	if err != nil {
		return status, errors.Trace(err)
	}
	if status.Compiler, err = parseStatus(compiler); err != nil {
		return status, errors.Annotate(err, "compiler")
	}
	execution, err := member(v, "hadoop_status")
	if err != nil {
		return status, errors.Trace(err)
	}
	if status.Execution, err = parseStatus(execution); err != nil {
		return status, errors.Annotate(err, "execution")
	}
	return status, nil
}

// ID returns the job's id.
func (j *Job) ID() int64 { return j.id }

// Input returns the dataset the job runs against.
func (j *Job) Input() Dataset { return j.input }

// Status returns the last fetched status of the job.
func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Submitted returns when the job was submitted, as the service formats it.
func (j *Job) Submitted() string { return j.Status().Submitted }

// CompilerStatus returns the state of the job's compilation.
func (j *Job) CompilerStatus() CompilerStatus { return j.Status().Compiler }

// ExecutionStatus returns the state of the job's execution.
func (j *Job) ExecutionStatus() ExecutionStatus { return j.Status().Execution }

// Running reports whether the job has work left to do.
func (j *Job) Running() bool { return j.Status().Running() }

// String implements fmt.Stringer.
func (j *Job) String() string {
	s := j.Status()
	return fmt.Sprintf("job %d (%s) compiler %s, execution %s", j.id, j.input.Name, s.Compiler, s.Execution)
}

// OutputCap returns how many bytes of output Output fetches.
func (j *Job) OutputCap() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outputCap
}

// SetOutputCap sets how many bytes of output Output fetches.
func (j *Job) SetOutputCap(n int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outputCap = n
}

// Refresh fetches the job's current status.
func (j *Job) Refresh(ctx context.Context) error {
	result, err := j.client.getJob(ctx, j.id)
	if err != nil {
		return errors.Trace(err)
	}
	status, err := parseJobStatus(result)
	if err != nil {
		return errors.Annotatef(err, "job %d", j.id)
	}
	j.mu.Lock()
	j.status = status
	j.mu.Unlock()
	return nil
}

// Wait refreshes the job every PollInterval until it stops running, and
// reports whether it ended without error. Cancelling ctx stops the wait
// before the next refresh; a refresh already under way completes and
// updates the job.
func (j *Job) Wait(ctx context.Context) (bool, error) {
	refreshCtx := context.WithoutCancel(ctx)
	for j.Running() {
		if ctx.Err() != nil {
			return false, errors.Annotatef(context.Cause(ctx), "waiting for job %d", j.id)
		}
		select {
		case <-ctx.Done():
			return false, errors.Annotatef(context.Cause(ctx), "waiting for job %d", j.id)
		case <-j.client.clock.After(PollInterval):
		}
		if err := j.Refresh(refreshCtx); err != nil {
			return false, errors.Trace(err)
		}
	}
	return j.Status().Succeeded(), nil
}

// URL returns the address of the job's page.
func (j *Job) URL(ctx context.Context) (string, error) {
	return j.client.jobURL(ctx, j.id)
}

// PublicURL returns the address at which a public job can be viewed
// without logging in.
func (j *Job) PublicURL(ctx context.Context) (string, error) {
	return j.client.jobPublicURL(ctx, j.id)
}

// Public reports whether the job is visible to others.
func (j *Job) Public(ctx context.Context) (bool, error) {
	return j.client.jobPublic(ctx, j.id)
}

// SetPublic sets whether the job is visible to others.
func (j *Job) SetPublic(ctx context.Context, public bool) error {
	return j.client.jobSetPublic(ctx, j.id, public)
}

// Source returns the query the job runs.
func (j *Job) Source(ctx context.Context) (string, error) {
	return j.client.jobSource(ctx, j.id)
}

// CompilerErrors returns the errors that failed the job's compilation.
// It returns ErrNotApplicable unless the compilation failed.
func (j *Job) CompilerErrors(ctx context.Context) (string, error) {
	if j.CompilerStatus() != StatusError {
		return "", errors.Annotatef(ErrNotApplicable, "compiler errors of job %d", j.id)
	}
	return j.client.jobCompilerErrors(ctx, j.id)
}

// Delete removes the job from the service.
func (j *Job) Delete(ctx context.Context) error {
	return j.client.jobDelete(ctx, j.id)
}

// Resubmit runs the job again. Call Refresh to see the new status.
func (j *Job) Resubmit(ctx context.Context) error {
	return j.client.jobResubmit(ctx, j.id)
}

// Stop stops the job if it is running.
func (j *Job) Stop(ctx context.Context) error {
	return j.client.jobStop(ctx, j.id)
}
