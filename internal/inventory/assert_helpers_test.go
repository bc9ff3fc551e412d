// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package inventory

import (
	"strings"
	"testing"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

func checkKind(t *testing.T, got, want models.PatternKind) {
	t.Helper()
	if got != want {
		t.Errorf("kind: expected %s, got %s", want, got)
	}
}

// seats builds unrestricted seats from names.
func seats(names ...string) []models.RawSeat {
	out := make([]models.RawSeat, len(names))
	for i, n := range names {
		out[i] = models.RawSeat{Name: n}
	}
	return out
}

func seatNames(s []models.RawSeat) string {
	names := make([]string, len(s))
	for i := range s {
		names[i] = s[i].Name
	}
	return strings.Join(names, ",")
}
