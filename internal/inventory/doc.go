// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

/*
Package inventory turns raw provider seat blocks into re-priced inventory
offers.

Everything here is pure and synchronous. The pipeline for one event is:

 1. Drop restricted-view seats.
 2. Drop seats listed in the event's ExclusionSet for that section and row.
 3. Classify the remaining seats (Classify) as even, odd, consecutive or none.
 4. Suffix the section label when the event has a SeatRule for the pattern.
 5. Pair seats two at a time.
 6. Sort all candidate pairs by sale price, first row character and first
    seat number, then keep the first pair per (section label, row).
 7. Derive the inventory ID (GenerateID) and list price (ListPrice).

Exclusions are applied before classification, so an excluded seat can never
anchor or break a pattern.
*/
package inventory
