// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package middleware

import (
	"net/http"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which AccessLog warns.
const DefaultSlowRequestThreshold = time.Second

// AccessLog returns middleware that logs each request at debug level, or
// at warn level when it took longer than slow. A zero slow uses
// DefaultSlowRequestThreshold.
func AccessLog(slow time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if slow <= 0 {
		slow = DefaultSlowRequestThreshold
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := newStatusRecorder(w)

			next(wrapper, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())
			event := logger.Debug()
			if duration > slow {
				event = logger.Warn().Dur("threshold", slow)
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", wrapper.statusCode).
				Int64("duration_ms", duration.Milliseconds()).
				Msg("HTTP request")
		}
	}
}
