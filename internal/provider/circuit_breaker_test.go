// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/config"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

func testBreakerConfig() *config.BreakerConfig {
	return &config.BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Hour,
		MinRequests:  4,
		FailureRatio: 0.5,
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	fake := &fakeSource{err: unavailable(opListSections, 502, errors.New("bad gateway"))}
	cbs := NewCircuitBreakerSource(fake, testBreakerConfig())

	if cbs.State() != "closed" {
		t.Fatalf("initial state = %s", cbs.State())
	}

	for i := 0; i < 4; i++ {
		_, _ = cbs.ListSeatSections(context.Background(), "1", "2", 2)
	}
	if cbs.State() != "open" {
		t.Fatalf("state = %s, want open after 4 failures", cbs.State())
	}

	_, _, before := fake.counts()
	_, err := cbs.ListSeatSections(context.Background(), "1", "2", 2)
	_, _, after := fake.counts()

	if after != before {
		t.Error("open breaker should not call the wrapped source")
	}
	var unavail *SourceUnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("rejected call err = %v, want *SourceUnavailableError", err)
	}
	if unavail.Op != opListSections {
		t.Errorf("Op = %q", unavail.Op)
	}
}

func TestCircuitBreaker_NotFoundIsNotAFailure(t *testing.T) {
	fake := &fakeSource{findErr: fmt.Errorf("%w: nope", ErrNotFound)}
	cbs := NewCircuitBreakerSource(fake, testBreakerConfig())

	for i := 0; i < 10; i++ {
		_, err := cbs.FindShow(context.Background(), "Nope", 2)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound passed through", err)
		}
	}
	if cbs.State() != "closed" {
		t.Errorf("state = %s, NotFound must not trip the breaker", cbs.State())
	}
}

func TestCircuitBreaker_PassesResults(t *testing.T) {
	fake := &fakeSource{
		show:      models.ShowRef{ID: "5", DisplayName: "Six"},
		showtimes: []models.Showtime{{ID: "1"}, {ID: "2"}},
	}
	cbs := NewCircuitBreakerSource(fake, testBreakerConfig())

	ref, err := cbs.FindShow(context.Background(), "Six", 2)
	if err != nil || ref.ID != "5" {
		t.Fatalf("FindShow = %+v, %v", ref, err)
	}
	list, err := cbs.ListShowtimes(context.Background(), ref)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListShowtimes = %v, %v", list, err)
	}
	blocks, err := cbs.ListSeatSections(context.Background(), "5", "1", 2)
	if err != nil {
		t.Fatalf("ListSeatSections: %v", err)
	}
	if blocks != nil {
		t.Errorf("blocks = %v, want nil passthrough", blocks)
	}
}
