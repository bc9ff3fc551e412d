// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package models

import (
	"time"
)

// PatternKind labels the numbering pattern found in a seat block.
type PatternKind string

const (
	PatternEven        PatternKind = "even"
	PatternOdd         PatternKind = "odd"
	PatternConsecutive PatternKind = "consecutive"
	PatternNone        PatternKind = "none"
)

// Valid reports whether k is one of the four known kinds.
func (k PatternKind) Valid() bool {
	switch k {
	case PatternEven, PatternOdd, PatternConsecutive, PatternNone:
		return true
	}
	return false
}

const (
	DefaultMarkupMultiplier = 1.6
	DefaultStockType        = "ELECTRONIC"
	DefaultLocationID       = 2
	DefaultVenueName        = "Unknown Venue"
	WebsiteTodayTix         = "TodayTix"
)

// Event is one bookable performance the scraper harvests.
type Event struct {
	ID                  int64      `json:"id"`
	EventKey            string     `json:"event_key" validate:"required,max=64"`
	ProviderShowRef     string     `json:"provider_show_ref" validate:"required,numeric"`
	ProviderShowtimeRef string     `json:"provider_showtime_ref" validate:"required,numeric"`
	DisplayName         string     `json:"display_name" validate:"required,notblank,max=255"`
	VenueName           string     `json:"venue_name,omitempty" validate:"max=255"`
	PerformanceDateTime time.Time  `json:"performance_datetime" validate:"required"`
	MarkupMultiplier    float64    `json:"markup_multiplier" validate:"gt=0,lte=100"`
	StockType           string     `json:"stock_type" validate:"omitempty,oneof=ELECTRONIC HARD MOBILE_SCREENCAP MOBILE_TRANSFER PAPERLESS FLASH"`
	InHandDate          *time.Time `json:"in_hand_date,omitempty"`
	LocationID          int        `json:"location_id" validate:"gte=0"`
	Website             string     `json:"website"`
	Rules               []SeatRule `json:"rules,omitempty" validate:"dive"`
	CreatedAt           time.Time  `json:"created_at"`
}

// ApplyDefaults fills the optional fields with their documented defaults.
func (e *Event) ApplyDefaults() {
	if e.MarkupMultiplier == 0 {
		e.MarkupMultiplier = DefaultMarkupMultiplier
	}
	if e.StockType == "" {
		e.StockType = DefaultStockType
	}
	if e.LocationID == 0 {
		e.LocationID = DefaultLocationID
	}
	if e.Website == "" {
		e.Website = WebsiteTodayTix
	}
}

// RuleFor returns the rule whose pattern matches kind, if any.
func (e *Event) RuleFor(kind PatternKind) (SeatRule, bool) {
	for _, r := range e.Rules {
		if r.PatternKind == kind {
			return r, true
		}
	}
	return SeatRule{}, false
}

// SeatRule appends LabelSuffix to the section name of offers whose seat
// block classified as PatternKind.
type SeatRule struct {
	ID          int64       `json:"id,omitempty"`
	EventID     int64       `json:"event_id,omitempty"`
	PatternKind PatternKind `json:"pattern_kind" validate:"required,oneof=even odd consecutive"`
	LabelSuffix string      `json:"label_suffix" validate:"required,max=64"`
}

// ExclusionEntry is a denylist of seats for one section and row, scoped to
// an event display name and venue.
type ExclusionEntry struct {
	ID        int64     `json:"id,omitempty"`
	EventName string    `json:"event_name" validate:"required,notblank"`
	VenueName string    `json:"venue_name"`
	Section   string    `json:"section" validate:"required"`
	Row       string    `json:"row" validate:"required"`
	SeatNames []string  `json:"seat_names" validate:"required,min=1,dive,required"`
	CreatedAt time.Time `json:"created_at"`
}
