// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

/*
Package main is the entry point for the TodayTix scraper server.

The server discovers seat inventory for configured TodayTix events on an
interval, turns each seat block into priced inventory offers, writes them
to a CSV artifact and optionally uploads the artifact to the inventory
store. An HTTP API controls the job and manages events, seat rules and
exclusions; a websocket streams run progress.

# Application Architecture

	Root supervisor ("todaytix-scraper")
	├── messaging-layer
	│   ├── websocket hub
	│   └── event router (run events -> websocket)
	├── scraper-layer
	│   └── scrape manager (periodic runs)
	└── api-layer
	    └── HTTP server (chi)

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, .env, environment)
 2. Logging: zerolog, console or JSON
 3. Database: DuckDB event store, last job record restored
 4. Provider: TodayTix client behind a circuit breaker and lookup caches
 5. Event bus: Watermill GoChannel with the websocket forwarder
 6. Scraper: orchestrator and periodic manager
 7. HTTP: chi router with CORS, rate limiting and Prometheus metrics
 8. Supervisor tree: suture v4

# Configuration

Key environment variables:

	PROXY_API_URL, PROXY_API_KEY     scraping proxy in front of TodayTix
	STORE_API_BASE_URL               inventory store for uploads
	STORE_API_KEY, COMPANY_ID
	SCRAPE_INTERVAL_MINUTES          default 20
	MAX_CONCURRENT_REQUESTS          default 5
	AUTO_UPLOAD                      default false
	START_ON_BOOT                    start the periodic job at startup
	DUCKDB_PATH                      event store location
	HTTP_PORT                        listen port

# Signal Handling

SIGINT and SIGTERM cancel the root context. The scrape job is stopped,
in-flight HTTP requests drain for SHUTDOWN_TIMEOUT, the event bus
and caches are closed and the database is closed last.
*/
package main
