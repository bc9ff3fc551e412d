// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

/*
Package models defines the data structures shared across the scraper.

Model categories:

 1. Configured input, stored in DuckDB and managed through the API:
    - Event: one performance to harvest, with its provider references
    - SeatRule: section label suffix per seat pattern kind
    - ExclusionEntry: seats that must never be offered

 2. Provider data, decoded from TodayTix responses:
    - ShowRef, Showtime
    - RawSeatBlock, RawSeat, Fees (prices as shopspring/decimal)

 3. Output:
    - InventoryOffer: one priced seat pair, one CSV row

 4. Job tracking:
    - ScrapeJob: the persisted run record and its JobStatus lifecycle
    - RunSnapshot: the read-only input of one run
    - RunEvent: progress notifications published on the event bus

 5. API envelope:
    - APIResponse, APIError, Metadata
    - ScrapeStatus, ShowtimeMatch, HealthReport

Monetary amounts are decimal.Decimal end to end; only the final list
price is rounded to whole units.

JSON field names are snake_case. Timestamps marshal as RFC3339; optional
times are pointers and encode as null or are omitted.
*/
package models
