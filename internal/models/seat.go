// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package models

import (
	"github.com/shopspring/decimal"
)

// ShowRef identifies a show at the provider.
type ShowRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Showtime is one performance of a show. LocalDate is YYYY-MM-DD and
// LocalTime is HH:MM, both in the venue's time zone.
type Showtime struct {
	ID        string `json:"id"`
	DateTime  string `json:"datetime"`
	LocalDate string `json:"local_date"`
	LocalTime string `json:"local_time"`
	DayOfWeek string `json:"day_of_week"`
}

type RawSeat struct {
	Name             string `json:"name"`
	IsRestrictedView bool   `json:"is_restricted_view"`
}

type Fees struct {
	Convenience decimal.Decimal `json:"convenience"`
	Concierge   decimal.Decimal `json:"concierge"`
	Order       decimal.Decimal `json:"order"`
}

// RawSeatBlock is one row of one section offered at a single price.
type RawSeatBlock struct {
	Section   string          `json:"section"`
	Row       string          `json:"row"`
	SalePrice decimal.Decimal `json:"sale_price"`
	FaceValue decimal.Decimal `json:"face_value"`
	Fees      Fees            `json:"fees"`
	Seats     []RawSeat       `json:"seats"`
}
