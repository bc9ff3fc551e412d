// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// Seat names are stored comma-joined.
const seatNameSep = ","

// CreateExclusion stores a seat denylist entry and sets x.ID and
// x.CreatedAt.
func (db *DB) CreateExclusion(ctx context.Context, x *models.ExclusionEntry) (err error) {
	start := time.Now()
	defer func() { observe("insert", "venue_exclusions", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	names := make([]string, 0, len(x.SeatNames))
	for _, n := range x.SeatNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	x.SeatNames = names

	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO venue_exclusions (event_name, venue_name, section, row_name, seat_names)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`,
		strings.TrimSpace(x.EventName), strings.TrimSpace(x.VenueName), x.Section, x.Row,
		strings.Join(names, seatNameSep))
	if err := row.Scan(&x.ID, &x.CreatedAt); err != nil {
		return fmt.Errorf("insert exclusion: %w", err)
	}
	return nil
}

// ListExclusions returns every exclusion entry.
func (db *DB) ListExclusions(ctx context.Context) (_ []models.ExclusionEntry, err error) {
	start := time.Now()
	defer func() { observe("select", "venue_exclusions", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, event_name, venue_name, section, row_name, seat_names, created_at
		FROM venue_exclusions
		ORDER BY event_name, venue_name, section, row_name, id`)
	if err != nil {
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	defer rows.Close()

	var out []models.ExclusionEntry
	for rows.Next() {
		var x models.ExclusionEntry
		var seats string
		if err := rows.Scan(&x.ID, &x.EventName, &x.VenueName, &x.Section, &x.Row, &seats, &x.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		x.SeatNames = splitSeats(seats)
		out = append(out, x)
	}
	return out, rows.Err()
}

// DeleteExclusion removes one entry.
func (db *DB) DeleteExclusion(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe("delete", "venue_exclusions", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM venue_exclusions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete exclusion %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exclusion %d: %w", id, ErrNotFound)
	}
	return nil
}

func splitSeats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, seatNameSep)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
