// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

func validEvent() *models.Event {
	return &models.Event{
		EventKey:            "EVT1",
		ProviderShowRef:     "384",
		ProviderShowtimeRef: "9911",
		DisplayName:         "Hamilton",
		PerformanceDateTime: time.Date(2026, 11, 1, 19, 0, 0, 0, time.UTC),
		MarkupMultiplier:    1.6,
		StockType:           models.DefaultStockType,
		LocationID:          2,
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(e *models.Event)
		wantField string
	}{
		{"valid", func(e *models.Event) {}, ""},
		{"missing show ref", func(e *models.Event) { e.ProviderShowRef = "" }, "provider_show_ref"},
		{"missing showtime ref", func(e *models.Event) { e.ProviderShowtimeRef = "" }, "provider_showtime_ref"},
		{"non numeric showtime", func(e *models.Event) { e.ProviderShowtimeRef = "abc" }, "provider_showtime_ref"},
		{"zero markup", func(e *models.Event) { e.MarkupMultiplier = 0 }, "markup_multiplier"},
		{"negative markup", func(e *models.Event) { e.MarkupMultiplier = -1 }, "markup_multiplier"},
		{"blank name", func(e *models.Event) { e.DisplayName = "   " }, "display_name"},
		{"bad stock type", func(e *models.Event) { e.StockType = "CARRIER_PIGEON" }, "stock_type"},
		{"zero performance", func(e *models.Event) { e.PerformanceDateTime = time.Time{} }, "performance_datetime"},
		{"bad rule", func(e *models.Event) {
			e.Rules = []models.SeatRule{{PatternKind: models.PatternNone, LabelSuffix: "X"}}
		}, "pattern_kind"},
		{"good rule", func(e *models.Event) {
			e.Rules = []models.SeatRule{{PatternKind: models.PatternEven, LabelSuffix: "EVEN"}}
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(e)
			err := ValidateEvent(e)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var evErr *EventValidationError
			if !errors.As(err, &evErr) {
				t.Fatalf("err = %v, want *EventValidationError", err)
			}
			if evErr.EventKey != "EVT1" {
				t.Errorf("EventKey = %q", evErr.EventKey)
			}
			found := false
			for _, fe := range evErr.Err.Errors() {
				if fe.Field() == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %s in %v", tt.wantField, evErr.Err)
			}
		})
	}
}

func TestValidateStruct_Exclusion(t *testing.T) {
	entry := models.ExclusionEntry{EventName: "Hamilton", Section: "Orchestra", Row: "C"}
	verr := ValidateStruct(&entry)
	if verr == nil {
		t.Fatal("expected error for empty seat_names")
	}
	if !strings.Contains(verr.Error(), "seat_names") {
		t.Errorf("error = %q", verr.Error())
	}

	entry.SeatNames = []string{"C101"}
	if verr := ValidateStruct(&entry); verr != nil {
		t.Errorf("unexpected error: %v", verr)
	}
}

func TestToAPIError(t *testing.T) {
	e := validEvent()
	e.ProviderShowRef = ""
	single := ValidateStruct(e).ToAPIError()
	if single.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s", single.Code)
	}
	if single.Message != "provider_show_ref is required" {
		t.Errorf("Message = %q", single.Message)
	}
	if single.Details["field"] != "provider_show_ref" {
		t.Errorf("Details = %v", single.Details)
	}

	e.MarkupMultiplier = 0
	multi := ValidateStruct(e).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details = %v", multi.Details)
	}
	if !strings.Contains(multi.Message, "; ") {
		t.Errorf("Message = %q", multi.Message)
	}
}

func TestTranslateMessages(t *testing.T) {
	type sample struct {
		Name  string   `json:"name" validate:"max=3"`
		Items []string `json:"items" validate:"min=2"`
		Kind  string   `json:"kind" validate:"oneof=a b"`
	}
	verr := ValidateStruct(&sample{Name: "toolong", Items: []string{"x"}, Kind: "c"})
	if verr == nil {
		t.Fatal("expected errors")
	}
	got := verr.Error()
	for _, want := range []string{
		"name must be at most 3 characters",
		"items must be at least 2 items",
		"kind must be one of: a b",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("%q missing %q", got, want)
		}
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator should return the same instance")
	}
}
