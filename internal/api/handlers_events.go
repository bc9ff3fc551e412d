// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

func (h *Handler) EventsList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	events, err := h.store.ListEvents(r.Context())
	if err != nil {
		respondStoreError(w, "Events", err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondSuccess(w, http.StatusOK, events, start)
}

func (h *Handler) EventsCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateEventRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	ev := req.toModel()
	if err := h.store.CreateEvent(r.Context(), ev); err != nil {
		respondStoreError(w, "Event", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("id", ev.ID).
		Str("event_key", sanitizeLogValue(ev.EventKey)).
		Msg("Event created")
	respondSuccess(w, http.StatusCreated, ev, start)
}

func (h *Handler) EventsGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid event id", nil)
		return
	}
	ev, err := h.store.GetEvent(r.Context(), id)
	if err != nil {
		respondStoreError(w, "Event", err)
		return
	}
	respondSuccess(w, http.StatusOK, ev, start)
}

// EventsDelete removes an event and its rules.
func (h *Handler) EventsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid event id", nil)
		return
	}
	if err := h.store.DeleteEvent(r.Context(), id); err != nil {
		respondStoreError(w, "Event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RulesList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid event id", nil)
		return
	}
	if _, err := h.store.GetEvent(r.Context(), id); err != nil {
		respondStoreError(w, "Event", err)
		return
	}
	rules, err := h.store.ListRules(r.Context(), id)
	if err != nil {
		respondStoreError(w, "Rules", err)
		return
	}
	if rules == nil {
		rules = []models.SeatRule{}
	}
	respondSuccess(w, http.StatusOK, rules, start)
}

// RulesCreate adds a labelling rule. One rule per pattern kind; a second
// rule of the same kind is a 409.
func (h *Handler) RulesCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid event id", nil)
		return
	}

	var rule models.SeatRule
	if !decodeAndValidate(w, r, &rule, false) {
		return
	}
	if err := h.store.AddRule(r.Context(), id, &rule); err != nil {
		respondStoreError(w, "Rule", err)
		return
	}
	respondSuccess(w, http.StatusCreated, rule, start)
}

func (h *Handler) RulesDelete(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(chi.URLParam(r, "id"))
	ruleID, ok2 := pathID(chi.URLParam(r, "ruleID"))
	if !ok || !ok2 {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid id", nil)
		return
	}
	if err := h.store.DeleteRule(r.Context(), eventID, ruleID); err != nil {
		respondStoreError(w, "Rule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExclusionsList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	list, err := h.store.ListExclusions(r.Context())
	if err != nil {
		respondStoreError(w, "Exclusions", err)
		return
	}
	if list == nil {
		list = []models.ExclusionEntry{}
	}
	respondSuccess(w, http.StatusOK, list, start)
}

// ExclusionsCreate stores seats that must never be offered. Matching
// against events and venues is case-insensitive at scrape time.
func (h *Handler) ExclusionsCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var x models.ExclusionEntry
	if !decodeAndValidate(w, r, &x, false) {
		return
	}
	if err := h.store.CreateExclusion(r.Context(), &x); err != nil {
		respondStoreError(w, "Exclusion", err)
		return
	}
	respondSuccess(w, http.StatusCreated, x, start)
}

func (h *Handler) ExclusionsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid exclusion id", nil)
		return
	}
	if err := h.store.DeleteExclusion(r.Context(), id); err != nil {
		respondStoreError(w, "Exclusion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
