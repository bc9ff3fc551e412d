// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"context"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
	"github.com/zaidejaz/todaytix-scraper/internal/scraper"
)

// ScrapeController starts, stops and reports on the periodic scrape job.
type ScrapeController interface {
	StartWith(ctx context.Context, opts scraper.StartOptions) error
	Stop() error
	TriggerRun() error
	Running() bool
	Status() models.ScrapeJob
}

// EventStore is the persistence used by the CRUD endpoints.
type EventStore interface {
	Ping(ctx context.Context) error

	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	AddRule(ctx context.Context, eventID int64, r *models.SeatRule) error
	ListRules(ctx context.Context, eventID int64) ([]models.SeatRule, error)
	DeleteRule(ctx context.Context, eventID, ruleID int64) error

	CreateExclusion(ctx context.Context, x *models.ExclusionEntry) error
	ListExclusions(ctx context.Context) ([]models.ExclusionEntry, error)
	DeleteExclusion(ctx context.Context, id int64) error
}

// ShowFinder resolves shows and their showtimes.
type ShowFinder interface {
	FindShow(ctx context.Context, displayName string, locationID int) (models.ShowRef, error)
	ListShowtimes(ctx context.Context, show models.ShowRef) ([]models.Showtime, error)
}

// BreakerState reports the provider circuit breaker state.
type BreakerState interface {
	State() string
}

// HandlerConfig wires a Handler. Breaker is optional.
type HandlerConfig struct {
	Scraper           ScrapeController
	Store             EventStore
	Shows             ShowFinder
	Breaker           BreakerState
	DefaultLocationID int

	// BaseContext outlives requests; scrape jobs started over HTTP run
	// under it.
	BaseContext context.Context
}

// Handler holds the dependencies of every endpoint.
//
// Handler methods are split across files:
//   - handlers_health.go: health report
//   - handlers_scrape.go: scrape start, stop, trigger and status
//   - handlers_showtimes.go: show discovery
//   - handlers_events.go: events, rules and exclusions
type Handler struct {
	scraper           ScrapeController
	store             EventStore
	shows             ShowFinder
	breaker           BreakerState
	defaultLocationID int
	baseCtx           context.Context
	startTime         time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.BaseContext == nil {
		cfg.BaseContext = context.Background()
	}
	if cfg.DefaultLocationID <= 0 {
		cfg.DefaultLocationID = models.DefaultLocationID
	}
	return &Handler{
		scraper:           cfg.Scraper,
		store:             cfg.Store,
		shows:             cfg.Shows,
		breaker:           cfg.Breaker,
		defaultLocationID: cfg.DefaultLocationID,
		baseCtx:           cfg.BaseContext,
		startTime:         time.Now(),
	}
}
