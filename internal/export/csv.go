// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

// Package export writes inventory offers as the CSV file the store ingests.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// FilenameLayout produces tickets_YYYYMMDD_HHMMSS.csv.
const FilenameLayout = "tickets_20060102_150405.csv"

// Header is the fixed column order of the artifact.
var Header = []string{
	"inventory_id", "event_name", "venue_name", "event_date", "event_id",
	"quantity", "section", "row", "seats", "barcodes", "internal_notes",
	"public_notes", "tags", "list_price", "face_price", "taxed_cost", "cost",
	"hide_seats", "in_hand", "in_hand_date", "instant_transfer",
	"files_available", "split_type", "custom_split", "stock_type", "zone",
	"shown_quantity", "passthrough",
}

// Row renders o in Header order.
func Row(o *models.InventoryOffer) []string {
	return []string{
		o.InventoryID,
		o.EventName,
		o.VenueName,
		o.EventDate,
		o.EventKey,
		strconv.Itoa(o.Quantity),
		o.Section,
		o.Row,
		o.Seats,
		o.Barcodes,
		o.InternalNotes,
		o.PublicNotes,
		o.Tags,
		strconv.FormatInt(o.ListPrice, 10),
		o.FacePrice.String(),
		o.TaxedCost.String(),
		o.Cost.String(),
		o.HideSeats,
		o.InHand,
		o.InHandDate,
		o.InstantXfer,
		o.FilesAvailable,
		o.SplitType,
		o.CustomSplit,
		o.StockType,
		o.Zone,
		o.ShownQuantity,
		o.Passthrough,
	}
}

// WriteCSV writes the header followed by one row per offer.
func WriteCSV(w io.Writer, offers []models.InventoryOffer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range offers {
		if err := cw.Write(Row(&offers[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Writer places timestamped artifacts in Dir.
type Writer struct {
	Dir string
	Now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Now: time.Now}
}

// Write creates Dir if needed and writes the artifact through a temporary
// file, renamed into place once complete. It returns the final path.
func (w *Writer) Write(offers []models.InventoryOffer) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o750); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	path := filepath.Join(w.Dir, now().Format(FilenameLayout))

	tmp, err := os.CreateTemp(w.Dir, ".tickets-*.csv.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := WriteCSV(tmp, offers); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return "", fmt.Errorf("rename artifact: %w", err)
	}
	return path, nil
}
