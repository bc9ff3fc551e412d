// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// StartScrapeRequest is the body of POST /api/scrape/start. Every field is
// optional; zero values keep the configured default.
type StartScrapeRequest struct {
	IntervalMinutes int   `json:"interval_minutes" validate:"omitempty,min=1,max=1440"`
	MaxConcurrent   int   `json:"max_concurrent" validate:"omitempty,min=1,max=50"`
	AutoUpload      *bool `json:"auto_upload"`
}

// ShowtimeSearchRequest is the body of POST /api/showtimes/search. Dates
// are inclusive and compared against the showtime's local date.
type ShowtimeSearchRequest struct {
	EventName  string `json:"event_name" validate:"required,notblank,max=255"`
	LocationID int    `json:"location_id" validate:"omitempty,min=1"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// CreateEventRequest is the body of POST /api/events. Provider references
// may be filled in later; an event without them is stored but not scraped.
type CreateEventRequest struct {
	EventKey            string            `json:"event_key" validate:"required,notblank,max=64"`
	ProviderShowRef     string            `json:"provider_show_ref" validate:"omitempty,numeric"`
	ProviderShowtimeRef string            `json:"provider_showtime_ref" validate:"omitempty,numeric"`
	DisplayName         string            `json:"display_name" validate:"required,notblank,max=255"`
	VenueName           string            `json:"venue_name" validate:"max=255"`
	PerformanceDateTime time.Time         `json:"performance_datetime" validate:"required"`
	MarkupMultiplier    float64           `json:"markup_multiplier" validate:"omitempty,gt=0,lte=100"`
	StockType           string            `json:"stock_type" validate:"omitempty,oneof=ELECTRONIC HARD MOBILE_SCREENCAP MOBILE_TRANSFER PAPERLESS FLASH"`
	InHandDate          *time.Time        `json:"in_hand_date"`
	LocationID          int               `json:"location_id" validate:"omitempty,min=1"`
	Website             string            `json:"website" validate:"max=64"`
	Rules               []models.SeatRule `json:"rules" validate:"dive"`
}

// toModel copies the request into an Event with defaults applied.
func (req *CreateEventRequest) toModel() *models.Event {
	ev := &models.Event{
		EventKey:            req.EventKey,
		ProviderShowRef:     req.ProviderShowRef,
		ProviderShowtimeRef: req.ProviderShowtimeRef,
		DisplayName:         req.DisplayName,
		VenueName:           req.VenueName,
		PerformanceDateTime: req.PerformanceDateTime,
		MarkupMultiplier:    req.MarkupMultiplier,
		StockType:           req.StockType,
		InHandDate:          req.InHandDate,
		LocationID:          req.LocationID,
		Website:             req.Website,
		Rules:               req.Rules,
	}
	ev.ApplyDefaults()
	return ev
}
