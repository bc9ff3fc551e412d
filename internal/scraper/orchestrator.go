// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

// Package scraper runs scrape jobs: the per-run Orchestrator that fans
// events out to a bounded worker pool, the JobTracker that owns the job
// record, and the Manager that repeats runs on an interval.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zaidejaz/todaytix-scraper/internal/inventory"
	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/metrics"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
	"github.com/zaidejaz/todaytix-scraper/internal/provider"
	"github.com/zaidejaz/todaytix-scraper/internal/validation"
)

// ArtifactWriter persists the offers of a completed run and returns the
// artifact path.
type ArtifactWriter interface {
	Write(offers []models.InventoryOffer) (string, error)
}

// Uploader hands an artifact to the external store.
type Uploader interface {
	Upload(ctx context.Context, path string) (ok bool, message string)
}

// Publisher receives run lifecycle notifications.
type Publisher interface {
	PublishRunEvent(ctx context.Context, ev *models.RunEvent) error
}

// OrchestrationError is a failure of the run itself rather than of a
// single event. It aborts the run.
type OrchestrationError struct {
	Op  string
	Err error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("orchestration failed during %s: %v", e.Op, e.Err)
}

func (e *OrchestrationError) Unwrap() error {
	return e.Err
}

// ErrNoOffers is recorded on a run that finished without any offer.
var ErrNoOffers = errors.New("no offers found")

// Outcome summarizes one run.
type Outcome struct {
	RunID           string
	Status          models.JobStatus
	EventsQualified int
	EventsSkipped   int
	EventsFailed    int
	EventsProcessed int
	OffersFound     int
	Artifact        string
	Uploaded        bool
	UploadMessage   string
	Duration        time.Duration
}

// OrchestratorConfig wires an Orchestrator. Source and Artifacts are
// required; the rest are optional.
type OrchestratorConfig struct {
	Source    provider.SeatSource
	Artifacts ArtifactWriter
	Uploader  Uploader
	Publisher Publisher

	// EventTimeout bounds the provider calls of one event. Zero means no
	// deadline beyond the run context.
	EventTimeout time.Duration
}

// Orchestrator executes scrape runs.
type Orchestrator struct {
	source       provider.SeatSource
	artifacts    ArtifactWriter
	uploader     Uploader
	publisher    Publisher
	eventTimeout time.Duration
	now          func() time.Time
	newRunID     func() string
	logger       zerolog.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		source:       cfg.Source,
		artifacts:    cfg.Artifacts,
		uploader:     cfg.Uploader,
		publisher:    cfg.Publisher,
		eventTimeout: cfg.EventTimeout,
		now:          time.Now,
		newRunID:     func() string { return uuid.New().String() },
		logger:       logging.Component("orchestrator"),
	}
}

// runState is the per-run context shared by dispatch and fold.
type runState struct {
	job        *JobTracker
	exclusions *inventory.ExclusionSnapshot
	stop       *StopSignal
	outcome    *Outcome
	logger     zerolog.Logger
}

type eventResult struct {
	event  *models.Event
	offers []models.InventoryOffer
	err    error
}

// Run executes one scrape over snap.Events. Per-event failures are logged
// and contribute no offers. A raised stop signal, or a cancelled ctx,
// yields status stopped and no artifact. Only failures of the run itself
// are returned, as *OrchestrationError.
func (o *Orchestrator) Run(ctx context.Context, job *JobTracker, snap *models.RunSnapshot) (outcome Outcome, err error) {
	runID := o.newRunID()
	start := o.now()
	job.Begin(runID, start)
	metrics.SetScrapeRunning(true)

	ctx = logging.ContextWithRunID(ctx, runID)
	logger := o.logger.With().Str("run_id", runID).Logger()
	outcome = Outcome{RunID: runID, Status: models.JobRunning}

	defer func() {
		if r := recover(); r != nil {
			err = &OrchestrationError{Op: "run", Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			job.Fail(err.Error(), true)
			outcome.Status = models.JobError
			logger.Error().Err(err).Msg("Scrape run aborted")
		}
		outcome.Duration = o.now().Sub(start)
		snapshot := job.Snapshot()
		outcome.EventsProcessed = snapshot.EventsProcessed
		metrics.SetScrapeRunning(false)
		metrics.RecordScrapeRun(string(outcome.Status), outcome.Duration, outcome.OffersFound)
		o.publish(ctx, &models.RunEvent{
			Type:             models.RunEventFinished,
			RunID:            runID,
			Status:           outcome.Status,
			EventsProcessed:  snapshot.EventsProcessed,
			TotalOffersFound: snapshot.TotalOffersFound,
			Artifact:         outcome.Artifact,
			Error:            snapshot.LastError,
		})
	}()

	if o.source == nil || o.artifacts == nil {
		return outcome, &OrchestrationError{Op: "setup", Err: errors.New("seat source and artifact writer are required")}
	}
	if snap == nil {
		return outcome, &OrchestrationError{Op: "load snapshot", Err: errors.New("nil run snapshot")}
	}

	concurrency, autoUpload := job.Settings()
	exclusions := inventory.NewExclusionSnapshot(snap.Exclusions)
	qualified := o.qualify(snap.Events, logger)
	outcome.EventsQualified = len(qualified)
	outcome.EventsSkipped = len(snap.Events) - len(qualified)

	logger.Info().
		Int("events", len(qualified)).
		Int("skipped", outcome.EventsSkipped).
		Int("concurrency", concurrency).
		Bool("auto_upload", autoUpload).
		Msg("Starting scrape run")
	o.publish(ctx, &models.RunEvent{Type: models.RunEventStarted, RunID: runID, Status: models.JobRunning})

	if len(qualified) == 0 {
		job.Fail("no scrapeable events", false)
		outcome.Status = models.JobError
		logger.Warn().Msg("No events with provider references")
		return outcome, nil
	}

	rs := &runState{
		job:        job,
		exclusions: exclusions,
		stop:       job.StopSignal(),
		outcome:    &outcome,
		logger:     logger,
	}
	offers, stopped := o.dispatch(ctx, rs, qualified, concurrency)
	if stopped || rs.stop.Stopped() || ctx.Err() != nil {
		job.MarkStopped()
		outcome.Status = models.JobStopped
		outcome.OffersFound = 0
		logger.Info().Msg("Stop requested, run terminated without artifact")
		return outcome, nil
	}

	outcome.OffersFound = len(offers)
	if len(offers) == 0 {
		job.Fail(ErrNoOffers.Error(), false)
		outcome.Status = models.JobError
		logger.Warn().Msg("No offers collected")
		return outcome, nil
	}

	path, err := o.artifacts.Write(offers)
	if err != nil {
		return outcome, &OrchestrationError{Op: "write artifact", Err: err}
	}
	outcome.Artifact = path
	job.Complete(path)
	outcome.Status = models.JobCompleted
	logger.Info().Str("artifact", path).Int("offers", len(offers)).Msg("Saved offers")

	if autoUpload && o.uploader != nil {
		ok, msg := o.uploader.Upload(ctx, path)
		outcome.Uploaded, outcome.UploadMessage = ok, msg
		if !ok {
			logger.Error().Str("artifact", path).Str("reason", msg).Msg("Artifact upload failed")
		}
	}
	return outcome, nil
}

// qualify drops events that cannot be scraped. Defaults are applied to a
// copy so the snapshot stays untouched.
func (o *Orchestrator) qualify(events []models.Event, logger zerolog.Logger) []models.Event {
	out := make([]models.Event, 0, len(events))
	for i := range events {
		ev := events[i]
		ev.ApplyDefaults()
		if ev.Website != models.WebsiteTodayTix {
			logger.Debug().Str("event", ev.DisplayName).Str("website", ev.Website).Msg("Skipping event for another website")
			continue
		}
		if err := validation.ValidateEvent(&ev); err != nil {
			logger.Warn().Err(err).Str("event_id", ev.EventKey).Msg("Skipping event")
			metrics.RecordEventProcessed("skipped")
			continue
		}
		out = append(out, ev)
	}
	return out
}

// dispatch feeds events to at most concurrency workers and folds their
// results on the calling goroutine. The stop signal is checked before each
// dispatch and before each fold. On stop it returns without waiting for
// in-flight workers; their context is cancelled and their results dropped.
func (o *Orchestrator) dispatch(ctx context.Context, rs *runState, events []models.Event, concurrency int) (offers []models.InventoryOffer, stopped bool) {
	stop := rs.stop
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan eventResult, len(events))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	go func() {
		defer func() {
			wg.Wait()
			close(results)
		}()
		for i := range events {
			select {
			case sem <- struct{}{}:
			case <-stop.Done():
				return
			case <-runCtx.Done():
				return
			}
			if stop.Stopped() || runCtx.Err() != nil {
				<-sem
				return
			}

			wg.Add(1)
			go func(ev *models.Event) {
				defer wg.Done()
				defer func() { <-sem }()
				results <- o.scrapeEvent(runCtx, ev, rs.exclusions)
			}(&events[i])
		}
	}()

	for {
		select {
		case res, ok := <-results:
			if !ok {
				return offers, false
			}
			if stop.Stopped() {
				return nil, true
			}
			offers = append(offers, o.fold(ctx, rs, res)...)
		case <-stop.Done():
			return nil, true
		case <-ctx.Done():
			return nil, true
		}
	}
}

// fold records one event result in the job counters.
func (o *Orchestrator) fold(ctx context.Context, rs *runState, res eventResult) []models.InventoryOffer {
	ev, logger := res.event, rs.logger
	count := 0
	result := "success"

	switch {
	case res.err == nil:
		count = len(res.offers)
		if count == 0 {
			result = "empty"
		}
		logger.Info().Str("event", ev.DisplayName).Int("offers", count).Msg("Event scraped")
	case errors.Is(res.err, provider.ErrNotFound):
		result = "not_found"
		rs.outcome.EventsFailed++
		logger.Warn().Err(res.err).Str("event", ev.DisplayName).Msg("Event not found at provider")
	default:
		result = "failed"
		rs.outcome.EventsFailed++
		logger.Error().Err(res.err).Str("event", ev.DisplayName).Msg("Event scrape failed")
	}
	metrics.RecordEventProcessed(result)

	processed, total := rs.job.RecordEvent(count)
	o.publish(ctx, &models.RunEvent{
		Type:             models.RunEventProcessed,
		RunID:            rs.outcome.RunID,
		Status:           models.JobRunning,
		EventsProcessed:  processed,
		TotalOffersFound: total,
		EventKey:         ev.EventKey,
		EventName:        ev.DisplayName,
		Offers:           count,
		Error:            errString(res.err),
	})
	if res.err != nil {
		return nil
	}
	return res.offers
}

// scrapeEvent is the unit of work of one worker. A panic is contained
// and reported as this event's error.
func (o *Orchestrator) scrapeEvent(ctx context.Context, ev *models.Event, exclusions *inventory.ExclusionSnapshot) (res eventResult) {
	res.event = ev
	defer func() {
		if r := recover(); r != nil {
			res.offers = nil
			res.err = fmt.Errorf("scrape %s: panic: %v", ev.EventKey, r)
		}
	}()

	if o.eventTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.eventTimeout)
		defer cancel()
	}

	blocks, err := o.source.ListSeatSections(ctx, ev.ProviderShowRef, ev.ProviderShowtimeRef, models.OfferQuantity)
	if err != nil {
		res.err = err
		return res
	}
	res.offers = inventory.BuildOffers(ev, blocks, exclusions.For(ev.DisplayName, ev.VenueName))
	return res
}

func (o *Orchestrator) publish(ctx context.Context, ev *models.RunEvent) {
	if o.publisher == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = o.now()
	}
	if err := o.publisher.PublishRunEvent(ctx, ev); err != nil {
		o.logger.Debug().Err(err).Str("type", ev.Type).Msg("Failed to publish run event")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
