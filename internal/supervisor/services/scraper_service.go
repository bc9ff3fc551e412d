// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/scraper"
)

// JobManager is satisfied by *scraper.Manager.
type JobManager interface {
	Start(ctx context.Context, intervalMinutes int) error
	Stop() error
}

// ScraperService owns the scrape job's process lifetime. With startOnBoot
// it starts the job at the configured interval; on shutdown it stops
// whatever job is running, including one started over the API.
type ScraperService struct {
	manager     JobManager
	startOnBoot bool
	name        string
}

func NewScraperService(manager JobManager, startOnBoot bool) *ScraperService {
	return &ScraperService{manager: manager, startOnBoot: startOnBoot, name: "scrape-manager"}
}

// Serve implements suture.Service. A job that is already running when the
// service (re)starts is left alone.
func (s *ScraperService) Serve(ctx context.Context) error {
	if s.startOnBoot {
		err := s.manager.Start(ctx, 0)
		switch {
		case errors.Is(err, scraper.ErrAlreadyRunning):
			logging.Debug().Msg("Scrape job already running")
		case err != nil:
			return fmt.Errorf("scrape job start failed: %w", err)
		}
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("scrape job stop failed: %w", err)
	}
	return ctx.Err()
}

func (s *ScraperService) String() string {
	return s.name
}
