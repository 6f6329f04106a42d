// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/worker/v4"
	"gopkg.in/tomb.v2"
)

var _ worker.Worker = (*StatusWatcher)(nil)

// StatusWatcher polls a job in the background and reports each change
// of its status. The first event is the status the job had when the
// watcher started. The changes channel is closed once the job stops
// running and its final status has been delivered, or when the watcher
// is killed.
type StatusWatcher struct {
	tomb     tomb.Tomb
	job      *Job
	clock    clock.Clock
	interval time.Duration
	changes  chan JobStatus
}

// NewStatusWatcher starts watching job, refreshing it every interval.
func NewStatusWatcher(job *Job, clk clock.Clock, interval time.Duration) *StatusWatcher {
	if interval <= 0 {
		interval = PollInterval
	}
	w := &StatusWatcher{
		job:      job,
		clock:    clk,
		interval: interval,
		changes:  make(chan JobStatus),
	}
	w.tomb.Go(w.loop)
	return w
}

func (w *StatusWatcher) loop() error {
	defer close(w.changes)
	ctx := w.tomb.Context(nil)

	last := w.job.Status()
	out := w.changes
	var timer <-chan time.Time
	for {
		select {
		case <-w.tomb.Dying():
			return tomb.ErrDying
		case out <- last:
			out = nil
			if !last.Running() {
				return nil
			}
			timer = w.clock.After(w.interval)
		case <-timer:
			timer = nil
			if err := w.job.Refresh(ctx); err != nil {
				return errors.Trace(err)
			}
			if status := w.job.Status(); status != last {
				last = status
				out = w.changes
			} else {
				timer = w.clock.After(w.interval)
			}
		}
	}
}

// Changes returns the channel on which status changes are delivered.
func (w *StatusWatcher) Changes() <-chan JobStatus {
	return w.changes
}

// Kill asks the watcher to stop without waiting for it to do so.
func (w *StatusWatcher) Kill() {
	w.tomb.Kill(nil)
}

// Wait waits for the watcher to stop and returns the error, if any,
// that stopped it.
func (w *StatusWatcher) Wait() error {
	return w.tomb.Wait()
}

// Stop kills the watcher and waits for it to stop.
func (w *StatusWatcher) Stop() error {
	w.Kill()
	return w.Wait()
}
