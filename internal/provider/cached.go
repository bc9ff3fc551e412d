// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package provider

import (
	"context"
	"fmt"

	"github.com/zaidejaz/todaytix-scraper/internal/cache"
	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/metrics"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// ShowLookupStore persists resolved show lookups. cache.ShowStore satisfies it.
type ShowLookupStore interface {
	GetShow(key string) (models.ShowRef, bool, error)
	PutShow(key string, ref models.ShowRef) error
}

// CachedSource caches FindShow in a persistent store and ListShowtimes in
// memory. Seat sections are always fetched live. Failed lookups are never
// cached.
type CachedSource struct {
	next      SeatSource
	shows     ShowLookupStore
	showtimes *cache.Cache[[]models.Showtime]
}

// NewCachedSource wraps next. Either cache may be nil to disable that layer.
func NewCachedSource(next SeatSource, shows ShowLookupStore, showtimes *cache.Cache[[]models.Showtime]) *CachedSource {
	return &CachedSource{next: next, shows: shows, showtimes: showtimes}
}

func showKey(displayName string, locationID int) string {
	return fmt.Sprintf("%d:%s", locationID, NormalizeName(displayName))
}

func (s *CachedSource) FindShow(ctx context.Context, displayName string, locationID int) (models.ShowRef, error) {
	if s.shows == nil {
		return s.next.FindShow(ctx, displayName, locationID)
	}

	key := showKey(displayName, locationID)
	ref, ok, err := s.shows.GetShow(key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("show cache read failed")
	}
	metrics.RecordCacheLookup("shows", ok)
	if ok {
		return ref, nil
	}

	ref, err = s.next.FindShow(ctx, displayName, locationID)
	if err != nil {
		return models.ShowRef{}, err
	}
	if err := s.shows.PutShow(key, ref); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("show cache write failed")
	}
	return ref, nil
}

func (s *CachedSource) ListShowtimes(ctx context.Context, show models.ShowRef) ([]models.Showtime, error) {
	if s.showtimes == nil {
		return s.next.ListShowtimes(ctx, show)
	}

	if cached, ok := s.showtimes.Get(show.ID); ok {
		metrics.RecordCacheLookup("showtimes", true)
		return cached, nil
	}
	metrics.RecordCacheLookup("showtimes", false)

	list, err := s.next.ListShowtimes(ctx, show)
	if err != nil {
		return nil, err
	}
	s.showtimes.Set(show.ID, list)
	return list, nil
}

func (s *CachedSource) ListSeatSections(ctx context.Context, showID, showtimeID string, quantity int) ([]models.RawSeatBlock, error) {
	return s.next.ListSeatSections(ctx, showID, showtimeID, quantity)
}
