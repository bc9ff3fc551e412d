// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package inventory

import (
	"strings"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// ExclusionSnapshot is an immutable view of every exclusion entry, taken
// once at the start of a run and shared read-only by all workers.
type ExclusionSnapshot struct {
	byScope map[string]ExclusionSet
}

// ExclusionSet holds the denied seat names of one (event, venue) scope,
// keyed by section and row.
type ExclusionSet map[string]map[string]struct{}

// NewExclusionSnapshot indexes entries by scope. Entries sharing a scope,
// section and row are merged.
func NewExclusionSnapshot(entries []models.ExclusionEntry) *ExclusionSnapshot {
	snap := &ExclusionSnapshot{byScope: make(map[string]ExclusionSet)}
	for _, e := range entries {
		scope := scopeKey(e.EventName, e.VenueName)
		set, ok := snap.byScope[scope]
		if !ok {
			set = make(ExclusionSet)
			snap.byScope[scope] = set
		}
		key := blockKey(e.Section, e.Row)
		seats, ok := set[key]
		if !ok {
			seats = make(map[string]struct{}, len(e.SeatNames))
			set[key] = seats
		}
		for _, name := range e.SeatNames {
			if name = strings.TrimSpace(name); name != "" {
				seats[name] = struct{}{}
			}
		}
	}
	return snap
}

// For returns the exclusions for one event. A nil snapshot or unknown
// scope yields an empty set.
func (s *ExclusionSnapshot) For(eventName, venueName string) ExclusionSet {
	if s == nil {
		return nil
	}
	return s.byScope[scopeKey(eventName, venueName)]
}

// Len is the number of scopes in the snapshot.
func (s *ExclusionSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byScope)
}

// Excluded reports whether seat is denied in section and row.
func (x ExclusionSet) Excluded(section, row, seat string) bool {
	seats, ok := x[blockKey(section, row)]
	if !ok {
		return false
	}
	_, denied := seats[strings.TrimSpace(seat)]
	return denied
}

func scopeKey(eventName, venueName string) string {
	return strings.ToLower(strings.TrimSpace(eventName)) + "\x00" + strings.ToLower(strings.TrimSpace(venueName))
}

func blockKey(section, row string) string {
	return section + "\x00" + row
}
