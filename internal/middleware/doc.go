// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

/*
Package middleware provides HTTP middleware for the API server.

Every middleware here has the shape func(http.HandlerFunc) http.HandlerFunc
and is adapted to chi's r.Use by the api package.

  - RequestID: X-Request-ID propagation plus request and correlation IDs
    in the logging context
  - PrometheusMetrics: request totals, latency and in-flight gauge,
    labelled by chi route pattern
  - AccessLog: one structured log line per request, warning above a
    latency threshold
*/
package middleware
