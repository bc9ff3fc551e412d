// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package provider

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/zaidejaz/todaytix-scraper/internal/config"
	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/metrics"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

const breakerName = "todaytix-proxy"

// CircuitBreakerSource stops calling the wrapped source once its failure
// ratio crosses the configured threshold. Rejected calls surface as
// *SourceUnavailableError so callers handle them like any other outage.
//
// ErrNotFound and context cancellation do not count as failures.
type CircuitBreakerSource struct {
	next SeatSource
	cb   *gobreaker.CircuitBreaker[interface{}]
}

func NewCircuitBreakerSource(next SeatSource, cfg *config.BreakerConfig) *CircuitBreakerSource {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	minRequests := cfg.MinRequests
	ratio := cfg.FailureRatio

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= ratio {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_ratio", failureRatio).Msg("opening provider circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerSource{next: next, cb: cb}
}

// State returns the breaker state as closed, half-open or open.
func (s *CircuitBreakerSource) State() string {
	return s.cb.State().String()
}

func (s *CircuitBreakerSource) FindShow(ctx context.Context, displayName string, locationID int) (models.ShowRef, error) {
	return execute(s, opFindShow, func() (models.ShowRef, error) {
		return s.next.FindShow(ctx, displayName, locationID)
	})
}

func (s *CircuitBreakerSource) ListShowtimes(ctx context.Context, show models.ShowRef) ([]models.Showtime, error) {
	return execute(s, opListShowtimes, func() ([]models.Showtime, error) {
		return s.next.ListShowtimes(ctx, show)
	})
}

func (s *CircuitBreakerSource) ListSeatSections(ctx context.Context, showID, showtimeID string, quantity int) ([]models.RawSeatBlock, error) {
	return execute(s, opListSections, func() ([]models.RawSeatBlock, error) {
		return s.next.ListSeatSections(ctx, showID, showtimeID, quantity)
	})
}

func execute[T any](s *CircuitBreakerSource, op string, fn func() (T, error)) (T, error) {
	var zero T
	result, err := s.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return zero, unavailable(op, 0, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return zero, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}
