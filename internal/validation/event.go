// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package validation

import (
	"fmt"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// EventValidationError marks an event the scraper must skip.
type EventValidationError struct {
	EventKey    string
	DisplayName string
	Err         *RequestValidationError
}

func (e *EventValidationError) Error() string {
	return fmt.Sprintf("event %q (%s) is not scrapeable: %v", e.DisplayName, e.EventKey, e.Err)
}

func (e *EventValidationError) Unwrap() error {
	return e.Err
}

// ValidateEvent checks that e carries everything a scrape needs: both
// provider references, a positive markup and well-formed rules.
func ValidateEvent(e *models.Event) error {
	if verr := ValidateStruct(e); verr != nil {
		return &EventValidationError{EventKey: e.EventKey, DisplayName: e.DisplayName, Err: verr}
	}
	return nil
}
