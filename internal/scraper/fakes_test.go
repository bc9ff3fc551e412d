// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// stubSource serves seat blocks keyed by showtime ref. Showtime refs in
// failures return their error instead. When gate is set every call blocks
// until gate is closed or ctx ends, after signalling on started.
type stubSource struct {
	mu       sync.Mutex
	blocks   map[string][]models.RawSeatBlock
	failures map[string]error
	calls    int
	gate     chan struct{}
	started  chan string
}

func newStubSource() *stubSource {
	return &stubSource{
		blocks:   make(map[string][]models.RawSeatBlock),
		failures: make(map[string]error),
	}
}

func (s *stubSource) FindShow(_ context.Context, displayName string, _ int) (models.ShowRef, error) {
	return models.ShowRef{ID: "1", DisplayName: displayName}, nil
}

func (s *stubSource) ListShowtimes(_ context.Context, _ models.ShowRef) ([]models.Showtime, error) {
	return nil, nil
}

func (s *stubSource) ListSeatSections(ctx context.Context, _, showtimeID string, _ int) ([]models.RawSeatBlock, error) {
	s.mu.Lock()
	s.calls++
	gate, started := s.gate, s.started
	blocks, err := s.blocks[showtimeID], s.failures[showtimeID]
	s.mu.Unlock()

	if started != nil {
		started <- showtimeID
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingWriter struct {
	mu     sync.Mutex
	writes [][]models.InventoryOffer
	err    error
}

func (w *recordingWriter) Write(offers []models.InventoryOffer) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return "", w.err
	}
	w.writes = append(w.writes, offers)
	return fmt.Sprintf("/tmp/tickets_%d.csv", len(w.writes)), nil
}

func (w *recordingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.writes)
}

type recordingUploader struct {
	mu    sync.Mutex
	paths []string
	ok    bool
}

func (u *recordingUploader) Upload(_ context.Context, path string) (bool, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paths = append(u.paths, path)
	if !u.ok {
		return false, "upload failed with status 500"
	}
	return true, "Upload successful"
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.RunEvent
}

func (p *recordingPublisher) PublishRunEvent(_ context.Context, ev *models.RunEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type stubLoader struct {
	mu    sync.Mutex
	snap  *models.RunSnapshot
	err   error
	loads int
}

func (l *stubLoader) LoadRunSnapshot(_ context.Context) (*models.RunSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	return l.snap, l.err
}

func (l *stubLoader) loadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

type memoryJobStore struct {
	mu   sync.Mutex
	last *models.ScrapeJob
}

func (s *memoryJobStore) SaveJob(_ context.Context, job *models.ScrapeJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := *job
	s.last = &j
	return nil
}

func scrapeableEvent(key, showtime string) models.Event {
	return models.Event{
		EventKey:            key,
		ProviderShowRef:     "100",
		ProviderShowtimeRef: showtime,
		DisplayName:         "Show " + key,
		VenueName:           "Venue",
		PerformanceDateTime: time.Date(2026, 11, 20, 19, 30, 0, 0, time.UTC),
		MarkupMultiplier:    1.6,
	}
}

func seatBlock(section, row, price string, names ...string) models.RawSeatBlock {
	seats := make([]models.RawSeat, len(names))
	for i, n := range names {
		seats[i] = models.RawSeat{Name: n}
	}
	return models.RawSeatBlock{
		Section:   section,
		Row:       row,
		SalePrice: decimal.RequireFromString(price),
		FaceValue: decimal.RequireFromString(price),
		Seats:     seats,
	}
}

func newTestOrchestrator(src *stubSource, w *recordingWriter, u *recordingUploader, p *recordingPublisher) *Orchestrator {
	cfg := OrchestratorConfig{Source: src, Artifacts: w}
	if u != nil {
		cfg.Uploader = u
	}
	if p != nil {
		cfg.Publisher = p
	}
	return NewOrchestrator(cfg)
}
