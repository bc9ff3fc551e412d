// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
)

// Migration is one versioned schema change. Migrations are append-only.
type Migration struct {
	Version   int
	Name      string
	SQL       []string
	AppliedAt time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// DuckDB has no ON DELETE CASCADE, so child rows reference their parent by
// plain columns and are removed explicitly inside a transaction.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		SQL: []string{
			`CREATE SEQUENCE IF NOT EXISTS events_id_seq START 1`,
			`CREATE TABLE IF NOT EXISTS events (
				id BIGINT PRIMARY KEY DEFAULT nextval('events_id_seq'),
				event_key TEXT NOT NULL UNIQUE,
				provider_show_ref TEXT NOT NULL DEFAULT '',
				provider_showtime_ref TEXT NOT NULL DEFAULT '',
				display_name TEXT NOT NULL,
				venue_name TEXT NOT NULL DEFAULT '',
				performance_datetime TIMESTAMP NOT NULL,
				markup_multiplier DOUBLE NOT NULL DEFAULT 1.6,
				stock_type TEXT NOT NULL DEFAULT 'ELECTRONIC',
				in_hand_date TIMESTAMP,
				location_id INTEGER NOT NULL DEFAULT 2,
				website TEXT NOT NULL DEFAULT 'TodayTix',
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE SEQUENCE IF NOT EXISTS event_rules_id_seq START 1`,
			`CREATE TABLE IF NOT EXISTS event_rules (
				id BIGINT PRIMARY KEY DEFAULT nextval('event_rules_id_seq'),
				event_id BIGINT NOT NULL,
				pattern_kind TEXT NOT NULL,
				label_suffix TEXT NOT NULL,
				UNIQUE (event_id, pattern_kind)
			)`,
			`CREATE SEQUENCE IF NOT EXISTS venue_exclusions_id_seq START 1`,
			`CREATE TABLE IF NOT EXISTS venue_exclusions (
				id BIGINT PRIMARY KEY DEFAULT nextval('venue_exclusions_id_seq'),
				event_name TEXT NOT NULL,
				venue_name TEXT NOT NULL DEFAULT '',
				section TEXT NOT NULL,
				row_name TEXT NOT NULL,
				seat_names TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS scrape_jobs (
				id BIGINT PRIMARY KEY,
				run_id TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				events_processed INTEGER NOT NULL DEFAULT 0,
				total_offers_found INTEGER NOT NULL DEFAULT 0,
				concurrency_limit INTEGER NOT NULL DEFAULT 5,
				auto_upload BOOLEAN NOT NULL DEFAULT false,
				interval_minutes INTEGER NOT NULL DEFAULT 20,
				started_at TIMESTAMP,
				last_run TIMESTAMP,
				next_run TIMESTAMP,
				last_artifact TEXT NOT NULL DEFAULT '',
				last_error TEXT NOT NULL DEFAULT '',
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		Version: 2,
		Name:    "lookup_indexes",
		SQL: []string{
			`CREATE INDEX IF NOT EXISTS idx_event_rules_event ON event_rules(event_id)`,
			`CREATE INDEX IF NOT EXISTS idx_venue_exclusions_scope ON venue_exclusions(event_name, venue_name)`,
		},
	},
}

// runVersionedMigrations applies every migration not yet recorded in
// schema_migrations, each in its own transaction.
func (db *DB) runVersionedMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, m := range migrations {
		if _, done := applied[m.Version]; done {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return err
		}
		count++
	}
	if count > 0 {
		logging.Info().Int("applied", count).Int("version", migrations[len(migrations)-1].Version).Msg("Database migrations applied")
	}
	return nil
}

func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration v%d: begin: %w", m.Version, err)
	}
	defer rollback(tx)

	for _, stmt := range m.SQL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name); err != nil {
		return fmt.Errorf("migration v%d: record: %w", m.Version, err)
	}
	return tx.Commit()
}

func (db *DB) appliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version, name, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	var v int
	if err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return v, nil
}
