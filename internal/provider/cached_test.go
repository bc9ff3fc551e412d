// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/cache"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

func newCachedFixture(t *testing.T, fake *fakeSource) *CachedSource {
	t.Helper()
	store, err := cache.OpenShowStore("", time.Hour)
	if err != nil {
		t.Fatalf("OpenShowStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	showtimes := cache.New[[]models.Showtime](time.Minute)
	t.Cleanup(showtimes.Close)

	return NewCachedSource(fake, store, showtimes)
}

func TestCachedSource_FindShowCached(t *testing.T) {
	fake := &fakeSource{show: models.ShowRef{ID: "384", DisplayName: "Hamilton"}}
	src := newCachedFixture(t, fake)

	for i := 0; i < 3; i++ {
		ref, err := src.FindShow(context.Background(), "Hamilton", 2)
		if err != nil || ref.ID != "384" {
			t.Fatalf("FindShow = %+v, %v", ref, err)
		}
	}
	// Same normalized name hits the cache too.
	if _, err := src.FindShow(context.Background(), "HAMILTON!", 2); err != nil {
		t.Fatal(err)
	}
	if find, _, _ := fake.counts(); find != 1 {
		t.Errorf("upstream FindShow calls = %d, want 1", find)
	}

	// A different location is a different key.
	if _, err := src.FindShow(context.Background(), "Hamilton", 1); err != nil {
		t.Fatal(err)
	}
	if find, _, _ := fake.counts(); find != 2 {
		t.Errorf("upstream FindShow calls = %d, want 2", find)
	}
}

func TestCachedSource_NotFoundNotCached(t *testing.T) {
	fake := &fakeSource{findErr: ErrNotFound}
	src := newCachedFixture(t, fake)

	for i := 0; i < 2; i++ {
		if _, err := src.FindShow(context.Background(), "Ghost", 2); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v", err)
		}
	}
	if find, _, _ := fake.counts(); find != 2 {
		t.Errorf("upstream calls = %d, failures must not be cached", find)
	}
}

func TestCachedSource_ShowtimesCachedSectionsLive(t *testing.T) {
	fake := &fakeSource{
		showtimes: []models.Showtime{{ID: "1", LocalDate: "2026-11-01"}},
		blocks:    []models.RawSeatBlock{{Section: "Orchestra", Row: "A"}},
	}
	src := newCachedFixture(t, fake)
	show := models.ShowRef{ID: "9"}

	for i := 0; i < 3; i++ {
		list, err := src.ListShowtimes(context.Background(), show)
		if err != nil || len(list) != 1 {
			t.Fatalf("ListShowtimes = %v, %v", list, err)
		}
		if _, err := src.ListSeatSections(context.Background(), "9", "1", 2); err != nil {
			t.Fatal(err)
		}
	}

	_, showtimes, sections := fake.counts()
	if showtimes != 1 {
		t.Errorf("upstream showtime calls = %d, want 1", showtimes)
	}
	if sections != 3 {
		t.Errorf("upstream section calls = %d, want 3", sections)
	}
}

func TestCachedSource_NilLayers(t *testing.T) {
	fake := &fakeSource{show: models.ShowRef{ID: "1"}}
	src := NewCachedSource(fake, nil, nil)

	for i := 0; i < 2; i++ {
		if _, err := src.FindShow(context.Background(), "x", 2); err != nil {
			t.Fatal(err)
		}
		if _, err := src.ListShowtimes(context.Background(), models.ShowRef{ID: "1"}); err != nil {
			t.Fatal(err)
		}
	}
	find, showtimes, _ := fake.counts()
	if find != 2 || showtimes != 2 {
		t.Errorf("calls = %d/%d, want pass-through", find, showtimes)
	}
}
