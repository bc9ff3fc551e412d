// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"errors"
	"net/http"

	"github.com/zaidejaz/todaytix-scraper/internal/database"
	"github.com/zaidejaz/todaytix-scraper/internal/provider"
	"github.com/zaidejaz/todaytix-scraper/internal/scraper"
)

// Error codes for API responses.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeDatabase            = "DATABASE_ERROR"
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
)

// respondStoreError maps event store errors to a response.
func respondStoreError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, what+" not found", nil)
	case errors.Is(err, database.ErrDuplicate):
		respondError(w, http.StatusConflict, ErrCodeConflict, what+" already exists", nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "A database error occurred", err)
	}
}

// respondProviderError maps SeatSource errors to a response.
func respondProviderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, provider.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Show not found", nil)
	case provider.IsUnavailable(err):
		respondError(w, http.StatusBadGateway, ErrCodeProviderUnavailable, "TodayTix is unavailable", err)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Show lookup failed", err)
	}
}

// respondScraperError maps manager errors to a response.
func respondScraperError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scraper.ErrAlreadyRunning):
		respondError(w, http.StatusConflict, ErrCodeConflict, "Scraper is already running", nil)
	case errors.Is(err, scraper.ErrNotRunning):
		respondError(w, http.StatusConflict, ErrCodeConflict, "Scraper is not running", nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Scraper operation failed", err)
	}
}
