// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package inventory

import (
	"github.com/shopspring/decimal"
)

// ListPrice applies the markup to a sale price and rounds half up to a
// whole currency unit. 99 x 1.6 = 158.4 gives 158, 100 x 1.6 gives 160.
// The product is computed in decimal, never float64.
func ListPrice(salePrice decimal.Decimal, markup float64) int64 {
	return salePrice.Mul(decimal.NewFromFloat(markup)).Round(0).IntPart()
}
