// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package scraper

import (
	"sync"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// StopSignal is a one-shot cooperative cancellation flag shared by the
// manager and the workers of a run.
type StopSignal struct {
	mu      sync.Mutex
	ch      chan struct{}
	stopped bool
}

func NewStopSignal() *StopSignal {
	return &StopSignal{ch: make(chan struct{})}
}

// Stop raises the signal. Further calls are no-ops.
func (s *StopSignal) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.ch)
}

func (s *StopSignal) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Done is closed once Stop has been called.
func (s *StopSignal) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch
}

// Reset re-arms a raised signal.
func (s *StopSignal) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		s.ch = make(chan struct{})
		s.stopped = false
	}
}

// JobTracker owns the single ScrapeJob record. Workers finish out of order,
// so every counter update goes through the mutex.
type JobTracker struct {
	mu   sync.RWMutex
	job  models.ScrapeJob
	stop *StopSignal
}

// NewJobTracker starts an idle job with the given settings.
func NewJobTracker(concurrency int, autoUpload bool, intervalMinutes int) *JobTracker {
	if concurrency <= 0 {
		concurrency = models.DefaultConcurrencyLimit
	}
	return &JobTracker{
		job: models.ScrapeJob{
			Status:           models.JobIdle,
			ConcurrencyLimit: concurrency,
			AutoUpload:       autoUpload,
			IntervalMinutes:  intervalMinutes,
		},
		stop: NewStopSignal(),
	}
}

// RestoreJobTracker resumes from a persisted record. A job that was
// running when the process died is reported as stopped.
func RestoreJobTracker(job *models.ScrapeJob) *JobTracker {
	t := NewJobTracker(job.ConcurrencyLimit, job.AutoUpload, job.IntervalMinutes)
	t.job = *job
	if t.job.ConcurrencyLimit <= 0 {
		t.job.ConcurrencyLimit = models.DefaultConcurrencyLimit
	}
	if t.job.Status == models.JobRunning {
		t.job.Status = models.JobStopped
		t.job.NextRun = nil
	}
	return t
}

// Configure replaces the run settings and re-arms the stop signal.
func (t *JobTracker) Configure(concurrency int, autoUpload bool, intervalMinutes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if concurrency > 0 {
		t.job.ConcurrencyLimit = concurrency
	}
	t.job.AutoUpload = autoUpload
	t.job.IntervalMinutes = intervalMinutes
	t.stop.Reset()
}

// Begin enters running: counters reset, StartedAt and LastRun set to now
// and NextRun set one interval ahead.
func (t *JobTracker) Begin(runID string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.job.RunID = runID
	t.job.Status = models.JobRunning
	t.job.EventsProcessed = 0
	t.job.TotalOffersFound = 0
	t.job.LastError = ""
	started := now
	t.job.StartedAt = &started
	lastRun := now
	t.job.LastRun = &lastRun
	t.job.NextRun = nil
	if t.job.IntervalMinutes > 0 {
		next := now.Add(time.Duration(t.job.IntervalMinutes) * time.Minute)
		t.job.NextRun = &next
	}
}

// RecordEvent folds one finished event into the counters.
func (t *JobTracker) RecordEvent(offers int) (processed, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.job.EventsProcessed++
	t.job.TotalOffersFound += offers
	return t.job.EventsProcessed, t.job.TotalOffersFound
}

// Complete marks a successful run and records its artifact.
func (t *JobTracker) Complete(artifact string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.job.Status = models.JobCompleted
	t.job.LastArtifact = artifact
}

// Fail marks the run as error. When halt is set NextRun is cleared so the
// job is not scheduled again.
func (t *JobTracker) Fail(reason string, halt bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.job.Status = models.JobError
	t.job.LastError = reason
	if halt {
		t.job.NextRun = nil
	}
}

// MarkStopped sets status stopped and drops any scheduled continuation.
func (t *JobTracker) MarkStopped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.job.Status = models.JobStopped
	t.job.NextRun = nil
}

// RequestStop marks the job stopped and raises the stop signal seen by
// the workers.
func (t *JobTracker) RequestStop() {
	t.MarkStopped()
	t.stop.Stop()
}

func (t *JobTracker) StopSignal() *StopSignal {
	return t.stop
}

func (t *JobTracker) Status() models.JobStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.job.Status
}

// Settings returns the concurrency limit and auto-upload flag.
func (t *JobTracker) Settings() (concurrency int, autoUpload bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.job.ConcurrencyLimit, t.job.AutoUpload
}

func (t *JobTracker) Interval() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return time.Duration(t.job.IntervalMinutes) * time.Minute
}

// Snapshot returns a deep copy of the job record.
func (t *JobTracker) Snapshot() models.ScrapeJob {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job := t.job
	job.StartedAt = copyTime(t.job.StartedAt)
	job.LastRun = copyTime(t.job.LastRun)
	job.NextRun = copyTime(t.job.NextRun)
	return job
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
