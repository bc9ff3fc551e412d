// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

// Package eventprocessor carries scrape run lifecycle events over an
// in-process Watermill bus.
//
// The orchestrator publishes one message per lifecycle step:
//
//	run.started          one per run
//	run.event_processed  one per dispatched event, success or failure
//	run.finished         one per run, with the final status
//
// A Router consumes the three topics and hands each decoded event to a
// Forwarder, which relays it to websocket clients. Publishing never
// blocks a run: the bus is fire-and-forget and a message published with
// no subscriber is discarded.
package eventprocessor
