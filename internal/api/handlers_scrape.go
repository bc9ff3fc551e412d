// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"net/http"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
	"github.com/zaidejaz/todaytix-scraper/internal/scraper"
)

// ScrapeStart starts the periodic job. The first run begins immediately
// in the background, so the response is 202 with the job status.
func (h *Handler) ScrapeStart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req StartScrapeRequest
	if !decodeAndValidate(w, r, &req, true) {
		return
	}

	err := h.scraper.StartWith(h.baseCtx, scraper.StartOptions{
		IntervalMinutes: req.IntervalMinutes,
		MaxConcurrent:   req.MaxConcurrent,
		AutoUpload:      req.AutoUpload,
	})
	if err != nil {
		respondScraperError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("interval_minutes", req.IntervalMinutes).
		Int("max_concurrent", req.MaxConcurrent).
		Msg("Scrape job started via API")
	respondSuccess(w, http.StatusAccepted, h.scrapeStatus(), start)
}

// ScrapeStop stops the job. 404 when no job is running.
func (h *Handler) ScrapeStop(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !h.scraper.Running() {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "No running job found", nil)
		return
	}
	if err := h.scraper.Stop(); err != nil {
		respondScraperError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("Scrape job stopped via API")
	respondSuccess(w, http.StatusOK, h.scrapeStatus(), start)
}

// ScrapeTrigger runs the active job now instead of at its next tick.
func (h *Handler) ScrapeTrigger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.scraper.TriggerRun(); err != nil {
		respondScraperError(w, err)
		return
	}
	respondSuccess(w, http.StatusAccepted, h.scrapeStatus(), start)
}

// ScrapeStatus returns status, last_run, next_run, events_processed and
// total_tickets_found.
func (h *Handler) ScrapeStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.scrapeStatus(), time.Now())
}

func (h *Handler) scrapeStatus() models.ScrapeStatus {
	return models.NewScrapeStatus(h.scraper.Status(), h.scraper.Running())
}
