// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/zaidejaz/todaytix-scraper/internal/api"
	"github.com/zaidejaz/todaytix-scraper/internal/cache"
	"github.com/zaidejaz/todaytix-scraper/internal/config"
	"github.com/zaidejaz/todaytix-scraper/internal/database"
	"github.com/zaidejaz/todaytix-scraper/internal/eventprocessor"
	"github.com/zaidejaz/todaytix-scraper/internal/export"
	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
	"github.com/zaidejaz/todaytix-scraper/internal/provider"
	"github.com/zaidejaz/todaytix-scraper/internal/scraper"
	"github.com/zaidejaz/todaytix-scraper/internal/upload"
	ws "github.com/zaidejaz/todaytix-scraper/internal/websocket"
)

// providerStack is the seat source used by both the scraper and the API.
type providerStack struct {
	source    provider.SeatSource
	breaker   *provider.CircuitBreakerSource
	showStore *cache.ShowStore
	showtimes *cache.Cache[[]models.Showtime]
}

// initProvider builds client -> circuit breaker -> lookup caches. Caches
// are skipped when disabled in config.
func initProvider(cfg *config.Config) (*providerStack, error) {
	client := provider.NewTodayTixClient(&cfg.Provider)
	breaker := provider.NewCircuitBreakerSource(client, &cfg.Provider.Breaker)
	stack := &providerStack{source: breaker, breaker: breaker}

	if !cfg.Cache.Enabled {
		logging.Info().Msg("Provider lookup cache disabled")
		return stack, nil
	}

	showStore, err := cache.OpenShowStore(cfg.Cache.Path, cfg.Cache.ShowTTL)
	if err != nil {
		return nil, fmt.Errorf("open show cache: %w", err)
	}
	stack.showStore = showStore
	stack.showtimes = cache.New[[]models.Showtime](cfg.Cache.ShowtimeTTL)
	stack.source = provider.NewCachedSource(breaker, showStore, stack.showtimes)

	logging.Info().
		Str("path", cfg.Cache.Path).
		Dur("show_ttl", cfg.Cache.ShowTTL).
		Dur("showtime_ttl", cfg.Cache.ShowtimeTTL).
		Msg("Provider lookup cache enabled")
	return stack, nil
}

func (p *providerStack) Close() {
	if p.showtimes != nil {
		p.showtimes.Close()
	}
	if p.showStore != nil {
		if err := p.showStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing show cache")
		}
	}
}

// eventPipeline is the run-event bus and the router that forwards it to
// websocket clients.
type eventPipeline struct {
	bus    *eventprocessor.Bus
	router *eventprocessor.Router
}

func initEventPipeline() (*eventPipeline, error) {
	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger())

	bus := eventprocessor.NewBus(eventprocessor.DefaultBusConfig(), wmLogger)
	router, err := eventprocessor.NewRouter(eventprocessor.DefaultRouterConfig(), wmLogger)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("create event router: %w", err)
	}
	return &eventPipeline{bus: bus, router: router}, nil
}

// forwardTo relays run events to hub. Must be called before the router runs.
func (p *eventPipeline) forwardTo(hub *ws.Hub, status eventprocessor.StatusFunc) {
	eventprocessor.NewForwarder(hub, status).Register(p.router, p.bus.Subscriber())
	logging.Info().Int("handlers", p.router.HandlerCount()).Msg("Run event forwarding configured")
}

// initScraper builds the orchestrator and the periodic manager, seeding
// the manager with the last persisted job record.
func initScraper(ctx context.Context, cfg *config.Config, db *database.DB, source provider.SeatSource, publisher scraper.Publisher) (*scraper.Manager, error) {
	orchCfg := scraper.OrchestratorConfig{
		Source:       source,
		Artifacts:    export.NewWriter(cfg.Scraper.OutputDir),
		Publisher:    publisher,
		EventTimeout: cfg.Scraper.EventTimeout,
	}
	if cfg.Store.Configured() {
		orchCfg.Uploader = upload.NewStoreUploader(&cfg.Store)
		logging.Info().Str("store", cfg.Store.BaseURL).Msg("Inventory store upload configured")
	} else {
		logging.Info().Msg("Inventory store not configured, uploads disabled")
	}

	previous, err := db.LoadJob(ctx)
	switch {
	case errors.Is(err, database.ErrNotFound):
		previous = nil
	case err != nil:
		return nil, fmt.Errorf("load job record: %w", err)
	default:
		logging.Info().
			Str("status", string(previous.Status)).
			Str("run_id", previous.RunID).
			Msg("Restored previous job record")
	}

	return scraper.NewManager(scraper.NewOrchestrator(orchCfg), db, db, scraper.ManagerConfig{
		ConcurrencyLimit: cfg.Scraper.MaxConcurrent,
		AutoUpload:       cfg.Scraper.AutoUpload,
		IntervalMinutes:  cfg.Scraper.IntervalMinutes,
	}, previous), nil
}

// initHTTPServer builds the chi router and the server around it.
func initHTTPServer(ctx context.Context, cfg *config.Config, handler *api.Handler, hub *ws.Hub) *http.Server {
	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Server.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Server.RateLimitWindow

	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg), hub)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}
