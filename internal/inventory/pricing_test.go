// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestListPrice(t *testing.T) {
	tests := []struct {
		sale   string
		markup float64
		want   int64
	}{
		{"100", 1.6, 160},
		{"99", 1.6, 158},
		{"89.5", 1.6, 143},
		{"25", 1.5, 38},
		{"0", 1.6, 0},
		{"59.99", 1, 60},
	}
	for _, tt := range tests {
		t.Run(tt.sale, func(t *testing.T) {
			got := ListPrice(decimal.RequireFromString(tt.sale), tt.markup)
			if got != tt.want {
				t.Errorf("ListPrice(%s, %v) = %d, want %d", tt.sale, tt.markup, got, tt.want)
			}
		})
	}
}
