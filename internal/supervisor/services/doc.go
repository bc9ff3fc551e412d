// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

/*
Package services adapts application components to suture.Service.

Each wrapper turns a component lifecycle into Serve(ctx) error:

  - HTTPServerService: ListenAndServe with graceful Shutdown
  - HubService: websocket.Hub.RunWithContext
  - EventRouterService: Watermill router Run, then Close on shutdown
  - ScraperService: scrape job Start on boot, Stop on shutdown

Serve returns ctx.Err() on a normal shutdown and a wrapped error when the
component fails, which tells the supervisor to restart it. Every service
implements fmt.Stringer so suture can name it in its logs.
*/
package services
