// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/api"
	"github.com/zaidejaz/todaytix-scraper/internal/config"
	"github.com/zaidejaz/todaytix-scraper/internal/database"
	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/supervisor"
	"github.com/zaidejaz/todaytix-scraper/internal/supervisor/services"
	ws "github.com/zaidejaz/todaytix-scraper/internal/websocket"
)

//nolint:gocyclo // sequential setup
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("output_dir", cfg.Scraper.OutputDir).
		Int("interval_minutes", cfg.Scraper.IntervalMinutes).
		Int("max_concurrent", cfg.Scraper.MaxConcurrent).
		Bool("auto_upload", cfg.Scraper.AutoUpload).
		Msg("Configuration loaded")

	if cfg.Scraper.AutoUpload && !cfg.Store.Configured() {
		logging.Warn().Msg("AUTO_UPLOAD is set but the inventory store is not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	providers, err := initProvider(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize provider")
	}
	defer providers.Close()

	hub := ws.NewHub()

	pipeline, err := initEventPipeline()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event pipeline")
	}

	manager, err := initScraper(ctx, cfg, db, providers.source, pipeline.bus)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize scraper")
	}
	pipeline.forwardTo(hub, manager.Status)

	handler := api.NewHandler(api.HandlerConfig{
		Scraper:           manager,
		Store:             db,
		Shows:             providers.source,
		Breaker:           providers.breaker,
		DefaultLocationID: cfg.Provider.LocationID,
		BaseContext:       ctx,
	})
	server := initHTTPServer(ctx, cfg, handler, hub)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddMessagingService(services.NewEventRouterService(pipeline.router, pipeline.bus))
	tree.AddScraperService(services.NewScraperService(manager, cfg.Scraper.StartOnBoot))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Bool("start_on_boot", cfg.Scraper.StartOnBoot).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
		cancel()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
