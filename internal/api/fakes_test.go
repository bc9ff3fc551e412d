// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/zaidejaz/todaytix-scraper/internal/database"
	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
	"github.com/zaidejaz/todaytix-scraper/internal/scraper"
)

//nolint:gochecknoinits // quiet logging for tests
func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

type fakeScraper struct {
	mu       sync.Mutex
	running  bool
	job      models.ScrapeJob
	lastOpts scraper.StartOptions
	startErr error
}

func (f *fakeScraper) StartWith(_ context.Context, opts scraper.StartOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	if f.running {
		return scraper.ErrAlreadyRunning
	}
	f.running = true
	f.lastOpts = opts
	f.job.Status = models.JobRunning
	return nil
}

func (f *fakeScraper) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	f.job.Status = models.JobStopped
	f.job.NextRun = nil
	return nil
}

func (f *fakeScraper) TriggerRun() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return scraper.ErrNotRunning
	}
	return nil
}

func (f *fakeScraper) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeScraper) Status() models.ScrapeJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.job
}

// memoryStore is an EventStore backed by maps.
type memoryStore struct {
	mu         sync.Mutex
	nextID     int64
	events     map[int64]*models.Event
	rules      map[int64][]models.SeatRule
	exclusions map[int64]models.ExclusionEntry
	pingErr    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		events:     make(map[int64]*models.Event),
		rules:      make(map[int64][]models.SeatRule),
		exclusions: make(map[int64]models.ExclusionEntry),
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) Ping(context.Context) error { return s.pingErr }

func (s *memoryStore) CreateEvent(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.events {
		if existing.EventKey == e.EventKey {
			return database.ErrDuplicate
		}
	}
	e.ID = s.id()
	e.CreatedAt = time.Now()
	cp := *e
	s.events[e.ID] = &cp
	for i := range e.Rules {
		e.Rules[i].ID = s.id()
		e.Rules[i].EventID = e.ID
	}
	s.rules[e.ID] = append([]models.SeatRule(nil), e.Rules...)
	return nil
}

func (s *memoryStore) GetEvent(_ context.Context, id int64) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *e
	cp.Rules = append([]models.SeatRule(nil), s.rules[id]...)
	return &cp, nil
}

func (s *memoryStore) ListEvents(context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (s *memoryStore) DeleteEvent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.events, id)
	delete(s.rules, id)
	return nil
}

func (s *memoryStore) AddRule(_ context.Context, eventID int64, r *models.SeatRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return database.ErrNotFound
	}
	for _, existing := range s.rules[eventID] {
		if existing.PatternKind == r.PatternKind {
			return database.ErrDuplicate
		}
	}
	r.ID = s.id()
	r.EventID = eventID
	s.rules[eventID] = append(s.rules[eventID], *r)
	return nil
}

func (s *memoryStore) ListRules(_ context.Context, eventID int64) ([]models.SeatRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SeatRule(nil), s.rules[eventID]...), nil
}

func (s *memoryStore) DeleteRule(_ context.Context, eventID, ruleID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rules := s.rules[eventID]
	for i, r := range rules {
		if r.ID == ruleID {
			s.rules[eventID] = append(rules[:i], rules[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *memoryStore) CreateExclusion(_ context.Context, x *models.ExclusionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	x.ID = s.id()
	s.exclusions[x.ID] = *x
	return nil
}

func (s *memoryStore) ListExclusions(context.Context) ([]models.ExclusionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ExclusionEntry
	for _, x := range s.exclusions {
		out = append(out, x)
	}
	return out, nil
}

func (s *memoryStore) DeleteExclusion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exclusions[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.exclusions, id)
	return nil
}

type fakeShows struct {
	show      models.ShowRef
	findErr   error
	showtimes []models.Showtime
	listErr   error
	location  int
}

func (f *fakeShows) FindShow(_ context.Context, _ string, locationID int) (models.ShowRef, error) {
	f.location = locationID
	if f.findErr != nil {
		return models.ShowRef{}, f.findErr
	}
	return f.show, nil
}

func (f *fakeShows) ListShowtimes(context.Context, models.ShowRef) ([]models.Showtime, error) {
	return f.showtimes, f.listErr
}

type fixedBreaker string

func (b fixedBreaker) State() string { return string(b) }

type testEnv struct {
	scraper *fakeScraper
	store   *memoryStore
	shows   *fakeShows
	handler http.Handler
}

func newTestEnv(t *testing.T, mwCfg *ChiMiddlewareConfig) *testEnv {
	t.Helper()
	env := &testEnv{
		scraper: &fakeScraper{job: models.ScrapeJob{Status: models.JobIdle, IntervalMinutes: 20, ConcurrencyLimit: 5}},
		store:   newMemoryStore(),
		shows: &fakeShows{
			show: models.ShowRef{ID: "384", DisplayName: "Hamilton"},
			showtimes: []models.Showtime{
				{ID: "1001", LocalDate: "2026-11-30", LocalTime: "19:30"},
				{ID: "1002", LocalDate: "2026-12-01", LocalTime: "14:30"},
				{ID: "1003", LocalDate: "2026-12-05", LocalTime: "19:30"},
				{ID: "1004", LocalDate: "not-a-date", LocalTime: "19:30"},
			},
		},
	}
	h := NewHandler(HandlerConfig{
		Scraper: env.scraper,
		Store:   env.store,
		Shows:   env.shows,
		Breaker: fixedBreaker("closed"),
	})
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.CORSAllowedOrigins = []string{"*"}
		mwCfg.RateLimitRequests = 0
	}
	env.handler = NewRouter(h, NewChiMiddleware(mwCfg), nil).SetupChi()
	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the response, with data left raw for the caller.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, want, rec.Body.String())
	}
}

func checkErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Status != "error" || env.Error == nil || env.Error.Code != want {
		t.Errorf("error = %+v, want code %s", env.Error, want)
	}
}
