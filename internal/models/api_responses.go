// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package models

import (
	"time"
)

// APIResponse is the envelope every JSON endpoint returns.
//
//	{
//	  "status": "success",
//	  "data": {"status": "running", "events_processed": 4},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       int       `json:"count,omitempty"`
}

// APIError codes in use: VALIDATION_ERROR, NOT_FOUND, CONFLICT,
// DATABASE_ERROR, PROVIDER_UNAVAILABLE, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthReport is returned by GET /health.
type HealthReport struct {
	Status            string     `json:"status"`
	DatabaseConnected bool       `json:"database_connected"`
	ProviderBreaker   string     `json:"provider_breaker"`
	JobStatus         JobStatus  `json:"job_status"`
	LastRun           *time.Time `json:"last_run,omitempty"`
	Uptime            float64    `json:"uptime_seconds"`
}

// ScrapeStatus is the run-progress contract returned by
// GET /api/scrape/status. Absent times encode as null.
type ScrapeStatus struct {
	Status            JobStatus  `json:"status"`
	LastRun           *time.Time `json:"last_run"`
	NextRun           *time.Time `json:"next_run"`
	EventsProcessed   int        `json:"events_processed"`
	TotalTicketsFound int        `json:"total_tickets_found"`
	Running           bool       `json:"running"`
	IntervalMinutes   int        `json:"interval_minutes"`
	MaxConcurrent     int        `json:"max_concurrent"`
	AutoUpload        bool       `json:"auto_upload"`
	LastArtifact      string     `json:"last_artifact,omitempty"`
	LastError         string     `json:"last_error,omitempty"`
}

// NewScrapeStatus projects a job record onto the status contract.
func NewScrapeStatus(job ScrapeJob, running bool) ScrapeStatus {
	return ScrapeStatus{
		Status:            job.Status,
		LastRun:           job.LastRun,
		NextRun:           job.NextRun,
		EventsProcessed:   job.EventsProcessed,
		TotalTicketsFound: job.TotalOffersFound,
		Running:           running,
		IntervalMinutes:   job.IntervalMinutes,
		MaxConcurrent:     job.ConcurrencyLimit,
		AutoUpload:        job.AutoUpload,
		LastArtifact:      job.LastArtifact,
		LastError:         job.LastError,
	}
}

// ShowtimeMatch is one row of a showtime search.
type ShowtimeMatch struct {
	ShowtimeID string `json:"todaytix_id"`
	ShowID     string `json:"show_id"`
	EventName  string `json:"event_name"`
	LocationID int    `json:"location_id"`
	City       string `json:"city"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}
