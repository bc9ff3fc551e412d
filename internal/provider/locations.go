// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package provider

// LocationNames maps TodayTix location IDs to city names.
var LocationNames = map[int]string{
	2:  "London",
	3:  "New York",
	4:  "Sydney",
	5:  "Los Angeles + OC",
	6:  "Brisbane",
	7:  "Chicago",
	8:  "Perth",
	9:  "SF Bay Area",
	10: "Washington DC",
	11: "Adelaide",
	12: "Melbourne",
}

// LocationName returns the city for id, or "Unknown".
func LocationName(id int) string {
	if name, ok := LocationNames[id]; ok {
		return name
	}
	return "Unknown"
}
