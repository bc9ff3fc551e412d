// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

/*
Package api exposes scrape control, job status, show discovery and the
event store over HTTP.

Routes:

	GET    /api/health
	POST   /api/scrape/start         {interval_minutes, max_concurrent, auto_upload}
	POST   /api/scrape/stop
	POST   /api/scrape/trigger
	GET    /api/scrape/status
	POST   /api/showtimes/search     {event_name, location_id, start_date, end_date}
	GET    /api/events
	POST   /api/events
	GET    /api/events/{id}
	DELETE /api/events/{id}
	GET    /api/events/{id}/rules
	POST   /api/events/{id}/rules
	DELETE /api/events/{id}/rules/{ruleID}
	GET    /api/exclusions
	POST   /api/exclusions
	DELETE /api/exclusions/{id}
	GET    /ws
	GET    /metrics

Every JSON response uses the models.APIResponse envelope.
*/
package api
