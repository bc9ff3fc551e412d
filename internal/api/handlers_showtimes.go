// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package api

import (
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/logging"
	"github.com/zaidejaz/todaytix-scraper/internal/models"
	"github.com/zaidejaz/todaytix-scraper/internal/provider"
)

const dateLayout = "2006-01-02"

// showtimeCSVHeader is the column order of ?format=csv responses.
var showtimeCSVHeader = []string{"TodayTix ID", "Event Name", "City", "Date", "Time"}

// ShowtimesSearch resolves a show by name and returns the showtimes whose
// local date lies within [start_date, end_date]. 404 when the show is
// unknown or nothing falls in range. ?format=csv returns a CSV download.
func (h *Handler) ShowtimesSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ShowtimeSearchRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}
	from, _ := time.Parse(dateLayout, req.StartDate)
	to, _ := time.Parse(dateLayout, req.EndDate)
	if to.Before(from) {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "end_date must not be before start_date", nil)
		return
	}
	locationID := req.LocationID
	if locationID == 0 {
		locationID = h.defaultLocationID
	}

	ctx := r.Context()
	show, err := h.shows.FindShow(ctx, req.EventName, locationID)
	if err != nil {
		respondProviderError(w, err)
		return
	}
	showtimes, err := h.shows.ListShowtimes(ctx, show)
	if err != nil {
		respondProviderError(w, err)
		return
	}

	matches := filterShowtimes(showtimes, from, to)
	if len(matches) == 0 {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "No showtimes found in the specified date range", nil)
		return
	}

	city := provider.LocationName(locationID)
	for i := range matches {
		matches[i].ShowID = show.ID
		matches[i].EventName = req.EventName
		matches[i].LocationID = locationID
		matches[i].City = city
	}

	logging.Ctx(ctx).Debug().
		Str("event_name", sanitizeLogValue(req.EventName)).
		Str("show_id", show.ID).
		Int("matches", len(matches)).
		Msg("Showtime search")

	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		writeShowtimesCSV(w, matches)
		return
	}
	respondSuccess(w, http.StatusOK, matches, start)
}

// filterShowtimes keeps showtimes with a parseable local date in
// [from, to].
func filterShowtimes(showtimes []models.Showtime, from, to time.Time) []models.ShowtimeMatch {
	var out []models.ShowtimeMatch
	for _, st := range showtimes {
		day, err := time.Parse(dateLayout, st.LocalDate)
		if err != nil {
			continue
		}
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, models.ShowtimeMatch{
			ShowtimeID: st.ID,
			Date:       st.LocalDate,
			Time:       st.LocalTime,
		})
	}
	return out
}

func writeShowtimesCSV(w http.ResponseWriter, matches []models.ShowtimeMatch) {
	filename := "todaytix_events_" + time.Now().Format("20060102_150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename="+filename)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(showtimeCSVHeader)
	for _, m := range matches {
		_ = cw.Write([]string{m.ShowtimeID, m.EventName, m.City, m.Date, m.Time})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.Error().Err(err).Msg("Failed to write showtimes CSV")
	}
}
