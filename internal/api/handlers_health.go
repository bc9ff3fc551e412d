// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

const healthCheckTimeout = 2 * time.Second

// Health reports database connectivity, breaker state and job status.
// It answers 503 when the database is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	report := models.HealthReport{
		Status:            "healthy",
		DatabaseConnected: h.store.Ping(ctx) == nil,
		ProviderBreaker:   "unknown",
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		report.ProviderBreaker = h.breaker.State()
	}
	if h.scraper != nil {
		job := h.scraper.Status()
		report.JobStatus = job.Status
		report.LastRun = job.LastRun
	}

	status := http.StatusOK
	switch {
	case !report.DatabaseConnected:
		report.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	case report.ProviderBreaker == "open":
		report.Status = "degraded"
	}

	respondSuccess(w, status, report, start)
}
