// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package models

import (
	"github.com/shopspring/decimal"
)

// Fixed values the downstream store expects on every offer.
const (
	OfferQuantity    = 2
	OfferHideSeats   = "Y"
	OfferInHand      = "N"
	OfferInstant     = "N"
	OfferFilesAvail  = "N"
	OfferSplitType   = "NEVERLEAVEONE"
	OfferZone        = "N"
	EventDateLayout  = "2006-01-02T15:04:00"
	InHandDateLayout = "2006-01-02"
)

// InventoryOffer is one re-priced seat pair ready for export.
type InventoryOffer struct {
	InventoryID    string          `json:"inventory_id"`
	EventKey       string          `json:"event_id"`
	EventName      string          `json:"event_name"`
	VenueName      string          `json:"venue_name"`
	EventDate      string          `json:"event_date"`
	Quantity       int             `json:"quantity"`
	Section        string          `json:"section"`
	Row            string          `json:"row"`
	Seats          string          `json:"seats"`
	Barcodes       string          `json:"barcodes"`
	InternalNotes  string          `json:"internal_notes"`
	PublicNotes    string          `json:"public_notes"`
	Tags           string          `json:"tags"`
	ListPrice      int64           `json:"list_price"`
	FacePrice      decimal.Decimal `json:"face_price"`
	TaxedCost      decimal.Decimal `json:"taxed_cost"`
	Cost           decimal.Decimal `json:"cost"`
	HideSeats      string          `json:"hide_seats"`
	InHand         string          `json:"in_hand"`
	InHandDate     string          `json:"in_hand_date"`
	InstantXfer    string          `json:"instant_transfer"`
	FilesAvailable string          `json:"files_available"`
	SplitType      string          `json:"split_type"`
	CustomSplit    string          `json:"custom_split"`
	StockType      string          `json:"stock_type"`
	Zone           string          `json:"zone"`
	ShownQuantity  string          `json:"shown_quantity"`
	Passthrough    string          `json:"passthrough"`
}
