// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// ErrAlreadyRunning is returned by Start while a job is active.
var ErrAlreadyRunning = errors.New("scraper already running")

// ErrNotRunning is returned by TriggerRun when no job is active.
var ErrNotRunning = errors.New("scraper not running")

// SnapshotLoader reads the run input from the event store.
type SnapshotLoader interface {
	LoadRunSnapshot(ctx context.Context) (*models.RunSnapshot, error)
}

// JobStore persists the job record after each transition.
type JobStore interface {
	SaveJob(ctx context.Context, job *models.ScrapeJob) error
}

// ManagerConfig holds the default run settings.
type ManagerConfig struct {
	ConcurrencyLimit int
	AutoUpload       bool
	IntervalMinutes  int
}

// Manager repeats scrape runs on an interval until stopped.
type Manager struct {
	orchestrator *Orchestrator
	loader       SnapshotLoader
	jobs         JobStore
	tracker      *JobTracker
	logger       zerolog.Logger

	// Runtime state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	trigger chan struct{}
}

// NewManager creates an idle manager. jobs may be nil. A previously
// persisted job record, if any, seeds the tracker.
func NewManager(orchestrator *Orchestrator, loader SnapshotLoader, jobs JobStore, cfg ManagerConfig, previous *models.ScrapeJob) *Manager {
	if cfg.ConcurrencyLimit <= 0 {
		cfg.ConcurrencyLimit = models.DefaultConcurrencyLimit
	}
	if cfg.IntervalMinutes <= 0 {
		cfg.IntervalMinutes = models.DefaultIntervalMinutes
	}

	tracker := NewJobTracker(cfg.ConcurrencyLimit, cfg.AutoUpload, cfg.IntervalMinutes)
	if previous != nil {
		tracker = RestoreJobTracker(previous)
	}

	return &Manager{
		orchestrator: orchestrator,
		loader:       loader,
		jobs:         jobs,
		tracker:      tracker,
		logger:       logging.Component("scrape-manager"),
	}
}

// StartOptions overrides run settings for one Start. Zero values keep the
// current setting.
type StartOptions struct {
	IntervalMinutes int
	MaxConcurrent   int
	AutoUpload      *bool
}

// Start begins a job that runs immediately and then every
// intervalMinutes. A non-positive interval keeps the current setting.
func (m *Manager) Start(ctx context.Context, intervalMinutes int) error {
	return m.StartWith(ctx, StartOptions{IntervalMinutes: intervalMinutes})
}

// StartWith is Start with concurrency and upload overrides.
func (m *Manager) StartWith(ctx context.Context, opts StartOptions) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.trigger = make(chan struct{}, 1)
	m.mu.Unlock()

	concurrency, autoUpload := m.tracker.Settings()
	if opts.MaxConcurrent > 0 {
		concurrency = opts.MaxConcurrent
	}
	if opts.AutoUpload != nil {
		autoUpload = *opts.AutoUpload
	}
	intervalMinutes := opts.IntervalMinutes
	if intervalMinutes <= 0 {
		intervalMinutes = int(m.tracker.Interval() / time.Minute)
	}
	m.tracker.Configure(concurrency, autoUpload, intervalMinutes)

	m.logger.Info().
		Int("interval_minutes", intervalMinutes).
		Int("max_concurrent", concurrency).
		Bool("auto_upload", autoUpload).
		Msg("Starting scrape job")

	go m.run(ctx, m.stopCh, m.doneCh, m.trigger)
	return nil
}

// Stop raises the stop signal, marks the job stopped and waits for the
// loop to exit. In-flight workers are abandoned.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	m.logger.Info().Msg("Stopping scrape job...")
	m.tracker.RequestStop()
	close(stopCh)
	<-doneCh

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	m.persist(context.Background())
	m.logger.Info().Msg("Scrape job stopped")
	return nil
}

// TriggerRun asks an active job to run now instead of waiting for the
// next interval. A request made while a run is in progress is coalesced.
func (m *Manager) TriggerRun() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return ErrNotRunning
	}
	select {
	case m.trigger <- struct{}{}:
	default:
	}
	return nil
}

// Running reports whether the loop is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Status returns a copy of the job record.
func (m *Manager) Status() models.ScrapeJob {
	return m.tracker.Snapshot()
}

// Tracker exposes the job tracker for one-off runs.
func (m *Manager) Tracker() *JobTracker {
	return m.tracker
}

func (m *Manager) run(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}, trigger <-chan struct{}) {
	defer close(doneCh)
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
		case <-trigger:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-stopCh:
			return
		case <-ctx.Done():
			m.tracker.MarkStopped()
			m.persist(context.Background())
			return
		}

		select {
		case <-stopCh:
			return
		default:
		}

		if err := m.runOnce(ctx); err != nil {
			var oerr *OrchestrationError
			if errors.As(err, &oerr) {
				m.logger.Error().Err(err).Msg("Scrape job halted")
				return
			}
		}
		if m.tracker.Status() == models.JobStopped {
			return
		}

		wait := m.tracker.Interval()
		if next := m.tracker.Snapshot().NextRun; next != nil {
			wait = time.Until(*next)
		}
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
		m.logger.Info().Dur("wait", wait).Msg("Next scrape scheduled")
	}
}

// runOnce loads the snapshot and executes one run.
func (m *Manager) runOnce(ctx context.Context) error {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	defer m.persist(ctx)

	snap, err := m.loader.LoadRunSnapshot(ctx)
	if err != nil {
		oerr := &OrchestrationError{Op: "load snapshot", Err: err}
		m.tracker.Fail(oerr.Error(), true)
		return oerr
	}

	outcome, err := m.orchestrator.Run(ctx, m.tracker, snap)
	if err != nil {
		return fmt.Errorf("run %s: %w", outcome.RunID, err)
	}

	m.logger.Info().
		Str("run_id", outcome.RunID).
		Str("status", string(outcome.Status)).
		Int("events_processed", outcome.EventsProcessed).
		Int("offers", outcome.OffersFound).
		Dur("duration", outcome.Duration).
		Msg("Scrape run finished")
	return nil
}

func (m *Manager) persist(ctx context.Context) {
	if m.jobs == nil {
		return
	}
	job := m.tracker.Snapshot()
	if err := m.jobs.SaveJob(ctx, &job); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist job record")
	}
}
