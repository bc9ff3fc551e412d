// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// jobRecordID is the key of the single persisted job row.
const jobRecordID = 1

// LoadRunSnapshot reads the input of one scrape run: TodayTix events that
// carry both provider references, with their rules, and every exclusion.
func (db *DB) LoadRunSnapshot(ctx context.Context) (*models.RunSnapshot, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	events, err := db.listEvents(ctx,
		`WHERE website = ? AND provider_show_ref <> '' AND provider_showtime_ref <> ''`,
		models.WebsiteTodayTix)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	exclusions, err := db.ListExclusions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exclusions: %w", err)
	}
	return &models.RunSnapshot{
		Events:     events,
		Exclusions: exclusions,
		LoadedAt:   time.Now(),
	}, nil
}

// SaveJob upserts the job record.
func (db *DB) SaveJob(ctx context.Context, job *models.ScrapeJob) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "scrape_jobs", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO scrape_jobs (id, run_id, status, events_processed, total_offers_found,
			concurrency_limit, auto_upload, interval_minutes, started_at, last_run, next_run,
			last_artifact, last_error, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		jobRecordID, job.RunID, string(job.Status), job.EventsProcessed, job.TotalOffersFound,
		job.ConcurrencyLimit, job.AutoUpload, job.IntervalMinutes,
		nullTime(job.StartedAt), nullTime(job.LastRun), nullTime(job.NextRun),
		job.LastArtifact, job.LastError)
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	job.ID = jobRecordID
	return nil
}

// LoadJob returns the persisted job record, or ErrNotFound before the
// first save.
func (db *DB) LoadJob(ctx context.Context) (_ *models.ScrapeJob, err error) {
	start := time.Now()
	defer func() { observe("select", "scrape_jobs", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var job models.ScrapeJob
	var status string
	var startedAt, lastRun, nextRun sql.NullTime
	err = db.conn.QueryRowContext(ctx, `
		SELECT id, run_id, status, events_processed, total_offers_found, concurrency_limit,
			auto_upload, interval_minutes, started_at, last_run, next_run, last_artifact, last_error
		FROM scrape_jobs WHERE id = ?`, jobRecordID).Scan(
		&job.ID, &job.RunID, &status, &job.EventsProcessed, &job.TotalOffersFound, &job.ConcurrencyLimit,
		&job.AutoUpload, &job.IntervalMinutes, &startedAt, &lastRun, &nextRun, &job.LastArtifact, &job.LastError)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scrape job: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	job.Status = models.JobStatus(status)
	job.StartedAt = timePtr(startedAt)
	job.LastRun = timePtr(lastRun)
	job.NextRun = timePtr(nextRun)
	return &job, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
