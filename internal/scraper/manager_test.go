// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestJobTracker_BeginResetsCounters(t *testing.T) {
	job := NewJobTracker(0, true, 30)
	job.RecordEvent(4)
	job.Complete("/tmp/a.csv")

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	job.Begin("run-2", now)

	snap := job.Snapshot()
	checkStatus(t, snap.Status, models.JobRunning)
	if snap.EventsProcessed != 0 || snap.TotalOffersFound != 0 {
		t.Errorf("counters not reset: %+v", snap)
	}
	if snap.ConcurrencyLimit != models.DefaultConcurrencyLimit {
		t.Errorf("concurrency = %d", snap.ConcurrencyLimit)
	}
	if snap.StartedAt == nil || !snap.StartedAt.Equal(now) {
		t.Errorf("started_at = %v", snap.StartedAt)
	}
	if snap.NextRun == nil || !snap.NextRun.Equal(now.Add(30*time.Minute)) {
		t.Errorf("next_run = %v, want last_run + 30m", snap.NextRun)
	}
	if snap.RunID != "run-2" {
		t.Errorf("run_id = %q", snap.RunID)
	}
}

func TestJobTracker_SnapshotIsCopy(t *testing.T) {
	job := NewJobTracker(1, false, 10)
	job.Begin("r", time.Now())

	snap := job.Snapshot()
	*snap.NextRun = time.Time{}
	if job.Snapshot().NextRun.IsZero() {
		t.Error("mutating a snapshot changed the tracker")
	}
}

func TestJobTracker_RecordEventConcurrent(t *testing.T) {
	job := NewJobTracker(1, false, 10)
	done := make(chan struct{})
	for i := 0; i < 50; i++ {
		go func() {
			job.RecordEvent(2)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 50; i++ {
		<-done
	}
	snap := job.Snapshot()
	if snap.EventsProcessed != 50 || snap.TotalOffersFound != 100 {
		t.Errorf("counters = %d/%d, want 50/100", snap.EventsProcessed, snap.TotalOffersFound)
	}
}

func TestRestoreJobTracker_RunningBecomesStopped(t *testing.T) {
	next := time.Now().Add(time.Hour)
	job := RestoreJobTracker(&models.ScrapeJob{Status: models.JobRunning, NextRun: &next, IntervalMinutes: 15})
	snap := job.Snapshot()
	checkStatus(t, snap.Status, models.JobStopped)
	if snap.NextRun != nil {
		t.Error("next_run should be cleared")
	}
	if snap.ConcurrencyLimit != models.DefaultConcurrencyLimit {
		t.Errorf("concurrency = %d", snap.ConcurrencyLimit)
	}
}

func TestStopSignal(t *testing.T) {
	s := NewStopSignal()
	if s.Stopped() {
		t.Fatal("new signal is raised")
	}
	s.Stop()
	s.Stop()
	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
	s.Reset()
	if s.Stopped() {
		t.Error("Reset did not re-arm")
	}
	select {
	case <-s.Done():
		t.Error("Done closed after Reset")
	default:
	}
}

func newTestManager(loader *stubLoader, store *memoryJobStore) (*Manager, *recordingWriter) {
	src := newStubSource()
	src.blocks["1"] = []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "1", "3")}
	w := &recordingWriter{}
	o := newTestOrchestrator(src, w, nil, nil)
	m := NewManager(o, loader, store, ManagerConfig{ConcurrencyLimit: 2, IntervalMinutes: 20}, nil)
	return m, w
}

func TestManager_StartRunsImmediately(t *testing.T) {
	loader := &stubLoader{snap: &models.RunSnapshot{Events: []models.Event{scrapeableEvent("EV1", "1")}}}
	store := &memoryJobStore{}
	m, w := newTestManager(loader, store)

	if err := m.Start(context.Background(), 60); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = m.Stop() })

	waitFor(t, "first run", func() bool { return m.Status().Status == models.JobCompleted })

	status := m.Status()
	if status.TotalOffersFound != 1 || status.EventsProcessed != 1 {
		t.Errorf("status = %+v", status)
	}
	if status.LastRun == nil || status.NextRun == nil {
		t.Fatal("last_run and next_run must be set")
	}
	if got := status.NextRun.Sub(*status.LastRun); got != 60*time.Minute {
		t.Errorf("next_run - last_run = %v, want 60m", got)
	}
	if w.count() != 1 {
		t.Errorf("artifacts = %d, want 1", w.count())
	}

	if err := m.Start(context.Background(), 60); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}
}

func TestManager_StopMarksStopped(t *testing.T) {
	loader := &stubLoader{snap: &models.RunSnapshot{Events: []models.Event{scrapeableEvent("EV1", "1")}}}
	store := &memoryJobStore{}
	m, _ := newTestManager(loader, store)

	if err := m.Start(context.Background(), 20); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, "first run", func() bool { return loader.loadCount() >= 1 && m.Status().Status != models.JobRunning })

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	status := m.Status()
	checkStatus(t, status.Status, models.JobStopped)
	if status.NextRun != nil {
		t.Error("next_run should be cleared on stop")
	}
	if m.Running() {
		t.Error("manager still running")
	}

	store.mu.Lock()
	persisted := store.last
	store.mu.Unlock()
	if persisted == nil || persisted.Status != models.JobStopped {
		t.Errorf("persisted job = %+v", persisted)
	}

	// A stopped manager can be started again.
	if err := m.Start(context.Background(), 20); err != nil {
		t.Fatalf("restart: %v", err)
	}
	waitFor(t, "second run", func() bool { return loader.loadCount() >= 2 })
	_ = m.Stop()
}

func TestManager_LoadFailureHalts(t *testing.T) {
	loader := &stubLoader{err: errors.New("database is locked")}
	m, _ := newTestManager(loader, nil)

	if err := m.Start(context.Background(), 20); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, "halt", func() bool { return !m.Running() })

	status := m.Status()
	checkStatus(t, status.Status, models.JobError)
	if status.NextRun != nil {
		t.Error("orchestration failure should clear next_run")
	}
	if status.LastError == "" {
		t.Error("last_error not recorded")
	}
	if err := m.Stop(); err != nil {
		t.Errorf("Stop after halt: %v", err)
	}
}

func TestManager_TriggerRun(t *testing.T) {
	loader := &stubLoader{snap: &models.RunSnapshot{Events: []models.Event{scrapeableEvent("EV1", "1")}}}
	m, _ := newTestManager(loader, nil)

	if err := m.TriggerRun(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("TriggerRun before Start = %v, want ErrNotRunning", err)
	}

	if err := m.Start(context.Background(), 60); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = m.Stop() })
	waitFor(t, "first run", func() bool { return loader.loadCount() == 1 && m.Status().Status == models.JobCompleted })

	if err := m.TriggerRun(); err != nil {
		t.Fatalf("TriggerRun: %v", err)
	}
	waitFor(t, "triggered run", func() bool { return loader.loadCount() == 2 })
}

func TestManager_ContextCancelStops(t *testing.T) {
	loader := &stubLoader{snap: &models.RunSnapshot{Events: []models.Event{scrapeableEvent("EV1", "1")}}}
	m, _ := newTestManager(loader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := m.Start(ctx, 60); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, "first run", func() bool { return m.Status().Status == models.JobCompleted })

	cancel()
	waitFor(t, "loop exit", func() bool { return !m.Running() })
	checkStatus(t, m.Status().Status, models.JobStopped)
}

func TestManager_StartWithOverrides(t *testing.T) {
	loader := &stubLoader{snap: &models.RunSnapshot{Events: []models.Event{scrapeableEvent("EV1", "1")}}}
	m, _ := newTestManager(loader, nil)

	upload := true
	if err := m.StartWith(context.Background(), StartOptions{IntervalMinutes: 45, MaxConcurrent: 9, AutoUpload: &upload}); err != nil {
		t.Fatalf("StartWith: %v", err)
	}
	t.Cleanup(func() { _ = m.Stop() })
	waitFor(t, "first run", func() bool { return m.Status().Status == models.JobCompleted })

	status := m.Status()
	if status.ConcurrencyLimit != 9 || !status.AutoUpload || status.IntervalMinutes != 45 {
		t.Errorf("settings = concurrency %d, upload %v, interval %d", status.ConcurrencyLimit, status.AutoUpload, status.IntervalMinutes)
	}
}
