// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package models

import (
	"time"
)

// JobStatus is the lifecycle state of a scrape job.
//
//	idle -> running -> completed | error | stopped
type JobStatus string

const (
	JobIdle      JobStatus = "idle"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobError     JobStatus = "error"
	JobStopped   JobStatus = "stopped"
)

// Terminal reports whether no further transitions happen within a run.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobError || s == JobStopped
}

const (
	DefaultConcurrencyLimit = 5
	DefaultIntervalMinutes  = 20
)

// ScrapeJob is the run-tracking record. During a run only Status and the
// two counters are mutated, and only through scraper.JobTracker.
type ScrapeJob struct {
	ID               int64      `json:"id"`
	RunID            string     `json:"run_id,omitempty"`
	Status           JobStatus  `json:"status"`
	EventsProcessed  int        `json:"events_processed"`
	TotalOffersFound int        `json:"total_tickets_found"`
	ConcurrencyLimit int        `json:"concurrency_limit"`
	AutoUpload       bool       `json:"auto_upload"`
	IntervalMinutes  int        `json:"interval_minutes"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	LastRun          *time.Time `json:"last_run,omitempty"`
	NextRun          *time.Time `json:"next_run,omitempty"`
	LastArtifact     string     `json:"last_artifact,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
}

// RunSnapshot is the read-only input of one run: every scrapeable event
// with its rules, plus all exclusion entries.
type RunSnapshot struct {
	Events     []Event          `json:"events"`
	Exclusions []ExclusionEntry `json:"exclusions"`
	LoadedAt   time.Time        `json:"loaded_at"`
}

// Run lifecycle event types, also used as pub/sub topics.
const (
	RunEventStarted   = "run.started"
	RunEventProcessed = "run.event_processed"
	RunEventFinished  = "run.finished"
)

// RunEvent is a progress notification for status consumers.
type RunEvent struct {
	Type             string    `json:"type"`
	RunID            string    `json:"run_id"`
	Status           JobStatus `json:"status"`
	EventsProcessed  int       `json:"events_processed"`
	TotalOffersFound int       `json:"total_tickets_found"`
	EventKey         string    `json:"event_id,omitempty"`
	EventName        string    `json:"event_name,omitempty"`
	Offers           int       `json:"offers,omitempty"`
	Artifact         string    `json:"artifact,omitempty"`
	Error            string    `json:"error,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
