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
	"strings"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// ErrDuplicate is returned when a unique key already exists.
var ErrDuplicate = errors.New("record already exists")

const eventColumns = `id, event_key, provider_show_ref, provider_showtime_ref, display_name,
	venue_name, performance_datetime, markup_multiplier, stock_type, in_hand_date,
	location_id, website, created_at`

// CreateEvent inserts e with its rules and sets e.ID and e.CreatedAt.
// Defaults are applied before the insert.
func (db *DB) CreateEvent(ctx context.Context, e *models.Event) (err error) {
	start := time.Now()
	defer func() { observe("insert", "events", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	e.ApplyDefaults()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer rollback(tx)

	var inHand sql.NullTime
	if e.InHandDate != nil {
		inHand = sql.NullTime{Time: *e.InHandDate, Valid: true}
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO events (event_key, provider_show_ref, provider_showtime_ref, display_name,
			venue_name, performance_datetime, markup_multiplier, stock_type, in_hand_date,
			location_id, website)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`,
		e.EventKey, e.ProviderShowRef, e.ProviderShowtimeRef, e.DisplayName,
		e.VenueName, e.PerformanceDateTime.UTC(), e.MarkupMultiplier, e.StockType, inHand,
		e.LocationID, e.Website)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return wrapConstraint(fmt.Errorf("insert event %s: %w", e.EventKey, err))
	}

	for i := range e.Rules {
		if err := insertRule(ctx, tx, e.ID, &e.Rules[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetEvent returns one event with its rules.
func (db *DB) GetEvent(ctx context.Context, id int64) (_ *models.Event, err error) {
	start := time.Now()
	defer func() { observe("select", "events", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}

	rules, err := db.queryRules(ctx, `WHERE event_id = ?`, id)
	if err != nil {
		return nil, err
	}
	e.Rules = rules[id]
	return e, nil
}

// ListEvents returns every event with its rules, ordered by performance
// time.
func (db *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	return db.listEvents(ctx, "")
}

func (db *DB) listEvents(ctx context.Context, where string, args ...interface{}) (_ []models.Event, err error) {
	start := time.Now()
	defer func() { observe("select", "events", start, err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events `+where+` ORDER BY performance_datetime, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	rules, err := db.queryRules(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Rules = rules[events[i].ID]
	}
	return events, nil
}

// DeleteEvent removes an event and its rules.
func (db *DB) DeleteEvent(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { observe("delete", "events", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_rules WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("delete rules of event %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// AddRule attaches a seat rule to an event. An event holds at most one
// rule per pattern kind.
func (db *DB) AddRule(ctx context.Context, eventID int64, r *models.SeatRule) (err error) {
	start := time.Now()
	defer func() { observe("insert", "event_rules", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer rollback(tx)

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT count(*) > 0 FROM events WHERE id = ?`, eventID).Scan(&exists); err != nil {
		return fmt.Errorf("check event %d: %w", eventID, err)
	}
	if !exists {
		return fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	if err := insertRule(ctx, tx, eventID, r); err != nil {
		return err
	}
	return tx.Commit()
}

// ListRules returns the rules of one event.
func (db *DB) ListRules(ctx context.Context, eventID int64) ([]models.SeatRule, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	rules, err := db.queryRules(ctx, `WHERE event_id = ?`, eventID)
	if err != nil {
		return nil, err
	}
	return rules[eventID], nil
}

// DeleteRule removes one rule of an event.
func (db *DB) DeleteRule(ctx context.Context, eventID, ruleID int64) (err error) {
	start := time.Now()
	defer func() { observe("delete", "event_rules", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM event_rules WHERE id = ? AND event_id = ?`, ruleID, eventID)
	if err != nil {
		return fmt.Errorf("delete rule %d: %w", ruleID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rule %d of event %d: %w", ruleID, eventID, ErrNotFound)
	}
	return nil
}

func insertRule(ctx context.Context, tx *sql.Tx, eventID int64, r *models.SeatRule) error {
	row := tx.QueryRowContext(ctx, `
		INSERT INTO event_rules (event_id, pattern_kind, label_suffix)
		VALUES (?, ?, ?)
		RETURNING id`, eventID, string(r.PatternKind), r.LabelSuffix)
	if err := row.Scan(&r.ID); err != nil {
		return wrapConstraint(fmt.Errorf("insert %s rule for event %d: %w", r.PatternKind, eventID, err))
	}
	r.EventID = eventID
	return nil
}

// queryRules returns rules grouped by event ID.
func (db *DB) queryRules(ctx context.Context, where string, args ...interface{}) (_ map[int64][]models.SeatRule, err error) {
	start := time.Now()
	defer func() { observe("select", "event_rules", start, err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, event_id, pattern_kind, label_suffix FROM event_rules `+where+` ORDER BY event_id, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]models.SeatRule)
	for rows.Next() {
		var r models.SeatRule
		var kind string
		if err := rows.Scan(&r.ID, &r.EventID, &kind, &r.LabelSuffix); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		r.PatternKind = models.PatternKind(kind)
		out[r.EventID] = append(out[r.EventID], r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(s rowScanner) (*models.Event, error) {
	var e models.Event
	var inHand sql.NullTime
	if err := s.Scan(&e.ID, &e.EventKey, &e.ProviderShowRef, &e.ProviderShowtimeRef, &e.DisplayName,
		&e.VenueName, &e.PerformanceDateTime, &e.MarkupMultiplier, &e.StockType, &inHand,
		&e.LocationID, &e.Website, &e.CreatedAt); err != nil {
		return nil, err
	}
	if inHand.Valid {
		t := inHand.Time
		e.InHandDate = &t
	}
	return &e, nil
}

// wrapConstraint maps DuckDB constraint violations to ErrDuplicate.
func wrapConstraint(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "Constraint Error") || strings.Contains(msg, "Duplicate key") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
