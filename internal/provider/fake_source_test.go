// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package provider

import (
	"context"
	"sync"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// fakeSource counts calls and returns canned results.
type fakeSource struct {
	mu            sync.Mutex
	findCalls     int
	showtimeCalls int
	sectionCalls  int

	show      models.ShowRef
	findErr   error
	showtimes []models.Showtime
	blocks    []models.RawSeatBlock
	err       error
}

func (f *fakeSource) FindShow(_ context.Context, _ string, _ int) (models.ShowRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	return f.show, f.findErr
}

func (f *fakeSource) ListShowtimes(_ context.Context, _ models.ShowRef) ([]models.Showtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showtimeCalls++
	return f.showtimes, f.err
}

func (f *fakeSource) ListSeatSections(_ context.Context, _, _ string, _ int) ([]models.RawSeatBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sectionCalls++
	return f.blocks, f.err
}

func (f *fakeSource) counts() (find, showtimes, sections int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findCalls, f.showtimeCalls, f.sectionCalls
}
