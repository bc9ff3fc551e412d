// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

// Package provider talks to the ticketing platform that supplies seats.
//
// SeatSource is the contract the scraper depends on. TodayTixClient is the
// production implementation, reached through an HTTP proxy. It can be
// wrapped by CircuitBreakerSource and CachedSource:
//
//	var src provider.SeatSource = provider.NewTodayTixClient(&cfg.Provider)
//	src = provider.NewCircuitBreakerSource(src, &cfg.Provider.Breaker)
//	src = provider.NewCachedSource(src, showStore, showtimeCache)
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// SeatSource resolves shows, lists performances and returns seat blocks.
// Implementations must be safe for concurrent use.
type SeatSource interface {
	// FindShow returns ErrNotFound unless exactly one candidate matches
	// displayName after normalization.
	FindShow(ctx context.Context, displayName string, locationID int) (models.ShowRef, error)

	ListShowtimes(ctx context.Context, show models.ShowRef) ([]models.Showtime, error)

	// ListSeatSections returns *SourceUnavailableError when the provider
	// cannot be reached or answers with an unusable payload.
	ListSeatSections(ctx context.Context, showID, showtimeID string, quantity int) ([]models.RawSeatBlock, error)
}

// ErrNotFound means the show does not exist or the name was ambiguous.
var ErrNotFound = errors.New("show not found")

// SourceUnavailableError reports a transport, status or decoding failure.
type SourceUnavailableError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *SourceUnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s unavailable (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s unavailable: %v", e.Op, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(op string, status int, err error) error {
	return &SourceUnavailableError{Op: op, StatusCode: status, Err: err}
}

// IsUnavailable reports whether err is (or wraps) a SourceUnavailableError.
func IsUnavailable(err error) bool {
	var target *SourceUnavailableError
	return errors.As(err, &target)
}

// NormalizeName strips punctuation, lowercases and collapses whitespace.
// Letters, digits and underscores are kept.
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
