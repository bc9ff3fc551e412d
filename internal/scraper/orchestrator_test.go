// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package scraper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
	"github.com/zaidejaz/todaytix-scraper/internal/provider"
)

func threeEventSnapshot() *models.RunSnapshot {
	return &models.RunSnapshot{
		Events: []models.Event{
			scrapeableEvent("EV1", "1"),
			scrapeableEvent("EV2", "2"),
			scrapeableEvent("EV3", "3"),
		},
	}
}

func checkStatus(t *testing.T, got, want models.JobStatus) {
	t.Helper()
	if got != want {
		t.Errorf("status = %s, want %s", got, want)
	}
}

func TestRun_PartialFailureCompletes(t *testing.T) {
	src := newStubSource()
	src.blocks["1"] = []models.RawSeatBlock{
		seatBlock("Orchestra", "A", "100", "101", "102"),
		seatBlock("Mezzanine", "B", "80", "2", "4"),
	}
	src.blocks["2"] = []models.RawSeatBlock{seatBlock("Balcony", "C", "50", "11", "13")}
	src.failures["3"] = &provider.SourceUnavailableError{Op: "list_sections", StatusCode: 502, Err: errors.New("bad gateway")}

	w := &recordingWriter{}
	o := newTestOrchestrator(src, w, nil, nil)
	job := NewJobTracker(2, false, 20)

	outcome, err := o.Run(context.Background(), job, threeEventSnapshot())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := job.Snapshot()
	checkStatus(t, snap.Status, models.JobCompleted)
	if snap.EventsProcessed != 3 {
		t.Errorf("events_processed = %d, want 3", snap.EventsProcessed)
	}
	if snap.TotalOffersFound != 3 {
		t.Errorf("total_tickets_found = %d, want 3", snap.TotalOffersFound)
	}
	if outcome.OffersFound != 3 || outcome.EventsFailed != 1 {
		t.Errorf("outcome = %+v", outcome)
	}
	if w.count() != 1 || len(w.writes[0]) != 3 {
		t.Fatalf("artifact writes = %d", w.count())
	}
	if snap.LastArtifact != outcome.Artifact || outcome.Artifact == "" {
		t.Errorf("artifact = %q, job = %q", outcome.Artifact, snap.LastArtifact)
	}
	for _, offer := range w.writes[0] {
		if offer.EventKey == "EV3" {
			t.Error("failing event contributed an offer")
		}
	}
}

func TestRun_ZeroOffersIsError(t *testing.T) {
	src := newStubSource()
	src.failures["1"] = &provider.SourceUnavailableError{Op: "list_sections", Err: errors.New("timeout")}
	src.failures["2"] = provider.ErrNotFound
	// "3" has no blocks at all.

	w := &recordingWriter{}
	job := NewJobTracker(5, false, 20)
	outcome, err := newTestOrchestrator(src, w, nil, nil).Run(context.Background(), job, threeEventSnapshot())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := job.Snapshot()
	checkStatus(t, snap.Status, models.JobError)
	if snap.EventsProcessed != 3 {
		t.Errorf("events_processed = %d, want 3", snap.EventsProcessed)
	}
	if snap.TotalOffersFound != 0 || outcome.OffersFound != 0 {
		t.Errorf("offers = %d/%d, want 0", snap.TotalOffersFound, outcome.OffersFound)
	}
	if w.count() != 0 {
		t.Error("artifact written for empty run")
	}
	if snap.NextRun == nil {
		t.Error("an empty run should keep the schedule")
	}
}

func TestRun_StopAfterDispatch(t *testing.T) {
	src := newStubSource()
	for _, id := range []string{"1", "2", "3"} {
		src.blocks[id] = []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "1", "3")}
	}
	src.gate = make(chan struct{})
	src.started = make(chan string, 3)

	w := &recordingWriter{}
	job := NewJobTracker(5, true, 20)
	u := &recordingUploader{ok: true}
	o := newTestOrchestrator(src, w, u, nil)

	type result struct {
		outcome Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		outcome, err := o.Run(context.Background(), job, threeEventSnapshot())
		done <- result{outcome, err}
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-src.started:
		case <-time.After(5 * time.Second):
			t.Fatal("workers were not dispatched")
		}
	}
	job.RequestStop()
	close(src.gate)

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after stop")
	}
	if res.err != nil {
		t.Fatalf("Run: %v", res.err)
	}

	snap := job.Snapshot()
	checkStatus(t, snap.Status, models.JobStopped)
	checkStatus(t, res.outcome.Status, models.JobStopped)
	if snap.TotalOffersFound != 0 {
		t.Errorf("total_tickets_found = %d, want 0", snap.TotalOffersFound)
	}
	if w.count() != 0 {
		t.Error("stopped run produced an artifact")
	}
	if len(u.paths) != 0 {
		t.Error("stopped run uploaded")
	}
	if snap.NextRun != nil {
		t.Error("stopped job kept a next run")
	}
}

func TestRun_StopBeforeDispatch(t *testing.T) {
	src := newStubSource()
	src.blocks["1"] = []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "1", "3")}

	job := NewJobTracker(1, false, 20)
	job.StopSignal().Stop()

	outcome, err := newTestOrchestrator(src, &recordingWriter{}, nil, nil).Run(context.Background(), job, threeEventSnapshot())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	checkStatus(t, outcome.Status, models.JobStopped)
	if src.callCount() != 0 {
		t.Errorf("source called %d times after stop", src.callCount())
	}
}

func TestRun_SkipsInvalidEvents(t *testing.T) {
	src := newStubSource()
	src.blocks["1"] = []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "1", "3")}

	missingShowtime := scrapeableEvent("EV2", "")
	otherSite := scrapeableEvent("EV3", "3")
	otherSite.Website = "Ticketmaster"
	badMarkup := scrapeableEvent("EV4", "4")
	badMarkup.MarkupMultiplier = -1

	snap := &models.RunSnapshot{Events: []models.Event{
		scrapeableEvent("EV1", "1"), missingShowtime, otherSite, badMarkup,
	}}

	job := NewJobTracker(5, false, 0)
	outcome, err := newTestOrchestrator(src, &recordingWriter{}, nil, nil).Run(context.Background(), job, snap)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.EventsQualified != 1 || outcome.EventsSkipped != 3 {
		t.Errorf("qualified=%d skipped=%d, want 1/3", outcome.EventsQualified, outcome.EventsSkipped)
	}
	if src.callCount() != 1 {
		t.Errorf("source calls = %d, want 1", src.callCount())
	}
	checkStatus(t, outcome.Status, models.JobCompleted)
	if job.Snapshot().NextRun != nil {
		t.Error("zero interval should not schedule a next run")
	}
}

func TestRun_NoQualifiedEvents(t *testing.T) {
	src := newStubSource()
	job := NewJobTracker(5, false, 20)
	outcome, err := newTestOrchestrator(src, &recordingWriter{}, nil, nil).Run(context.Background(), job, &models.RunSnapshot{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	checkStatus(t, outcome.Status, models.JobError)
	checkStatus(t, job.Status(), models.JobError)
}

func TestRun_AutoUpload(t *testing.T) {
	tests := []struct {
		name       string
		autoUpload bool
		uploadOK   bool
		wantCalls  int
	}{
		{"disabled", false, true, 0},
		{"success", true, true, 1},
		{"failure keeps completed", true, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newStubSource()
			src.blocks["1"] = []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "1", "3")}
			u := &recordingUploader{ok: tt.uploadOK}
			job := NewJobTracker(1, tt.autoUpload, 20)

			snap := &models.RunSnapshot{Events: []models.Event{scrapeableEvent("EV1", "1")}}
			outcome, err := newTestOrchestrator(src, &recordingWriter{}, u, nil).Run(context.Background(), job, snap)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(u.paths) != tt.wantCalls {
				t.Errorf("upload calls = %d, want %d", len(u.paths), tt.wantCalls)
			}
			if tt.wantCalls > 0 && u.paths[0] != outcome.Artifact {
				t.Errorf("uploaded %q, want %q", u.paths[0], outcome.Artifact)
			}
			checkStatus(t, job.Status(), models.JobCompleted)
			if outcome.Uploaded != (tt.wantCalls > 0 && tt.uploadOK) {
				t.Errorf("uploaded = %v", outcome.Uploaded)
			}
		})
	}
}

func TestRun_ArtifactFailureIsOrchestrationError(t *testing.T) {
	src := newStubSource()
	src.blocks["1"] = []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "1", "3")}
	w := &recordingWriter{err: errors.New("disk full")}
	job := NewJobTracker(1, false, 20)

	snap := &models.RunSnapshot{Events: []models.Event{scrapeableEvent("EV1", "1")}}
	outcome, err := newTestOrchestrator(src, w, nil, nil).Run(context.Background(), job, snap)

	var oerr *OrchestrationError
	if !errors.As(err, &oerr) {
		t.Fatalf("err = %v, want *OrchestrationError", err)
	}
	if oerr.Op != "write artifact" {
		t.Errorf("op = %q", oerr.Op)
	}
	checkStatus(t, outcome.Status, models.JobError)
	got := job.Snapshot()
	checkStatus(t, got.Status, models.JobError)
	if got.NextRun != nil {
		t.Error("orchestration failure should clear next run")
	}
	if got.LastError == "" {
		t.Error("last error not recorded")
	}
}

func TestRun_NilSnapshot(t *testing.T) {
	job := NewJobTracker(1, false, 20)
	_, err := newTestOrchestrator(newStubSource(), &recordingWriter{}, nil, nil).Run(context.Background(), job, nil)
	var oerr *OrchestrationError
	if !errors.As(err, &oerr) {
		t.Fatalf("err = %v, want *OrchestrationError", err)
	}
}

func TestRun_AppliesExclusions(t *testing.T) {
	src := newStubSource()
	src.blocks["1"] = []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "12", "14", "16")}

	ev := scrapeableEvent("EV1", "1")
	snap := &models.RunSnapshot{
		Events: []models.Event{ev},
		Exclusions: []models.ExclusionEntry{{
			EventName: ev.DisplayName,
			VenueName: ev.VenueName,
			Section:   "Orchestra",
			Row:       "A",
			SeatNames: []string{"14"},
		}},
	}
	w := &recordingWriter{}
	if _, err := newTestOrchestrator(src, w, nil, nil).Run(context.Background(), NewJobTracker(1, false, 20), snap); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.count() != 1 || len(w.writes[0]) != 1 {
		t.Fatalf("writes = %d", w.count())
	}
	if got := w.writes[0][0].Seats; got != "12,16" {
		t.Errorf("seats = %q, want 12,16", got)
	}
}

func TestRun_PublishesLifecycle(t *testing.T) {
	src := newStubSource()
	src.blocks["1"] = []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "1", "3")}
	p := &recordingPublisher{}

	if _, err := newTestOrchestrator(src, &recordingWriter{}, nil, p).Run(context.Background(), NewJobTracker(2, false, 20), threeEventSnapshot()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	types := p.types()
	if len(types) != 5 {
		t.Fatalf("published %v, want 5 events", types)
	}
	if types[0] != models.RunEventStarted || types[4] != models.RunEventFinished {
		t.Errorf("published %v", types)
	}
	for _, typ := range types[1:4] {
		if typ != models.RunEventProcessed {
			t.Errorf("published %v", types)
		}
	}
	last := p.events[4]
	if last.EventsProcessed != 3 || last.TotalOffersFound != 1 || last.Status != models.JobCompleted {
		t.Errorf("finished event = %+v", last)
	}
}

// inflightSource records the highest number of concurrent calls.
type inflightSource struct {
	stubSource
	mu      sync.Mutex
	current int
	peak    int
}

func (s *inflightSource) ListSeatSections(_ context.Context, _, _ string, _ int) ([]models.RawSeatBlock, error) {
	s.mu.Lock()
	s.current++
	if s.current > s.peak {
		s.peak = s.current
	}
	s.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	s.mu.Lock()
	s.current--
	s.mu.Unlock()
	return []models.RawSeatBlock{seatBlock("Orchestra", "A", "100", "1", "3")}, nil
}

func TestRun_BoundedConcurrency(t *testing.T) {
	src := &inflightSource{}
	events := make([]models.Event, 12)
	for i := range events {
		events[i] = scrapeableEvent("EV"+string(rune('A'+i)), "7")
	}

	o := NewOrchestrator(OrchestratorConfig{Source: src, Artifacts: &recordingWriter{}})
	job := NewJobTracker(3, false, 20)
	if _, err := o.Run(context.Background(), job, &models.RunSnapshot{Events: events}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	src.mu.Lock()
	peak := src.peak
	src.mu.Unlock()
	if peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
	if got := job.Snapshot().EventsProcessed; got != 12 {
		t.Errorf("events_processed = %d, want 12", got)
	}
}
