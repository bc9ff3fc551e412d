// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// candidate is one seat pair before deduplication.
type candidate struct {
	section   string
	row       string
	first     models.RawSeat
	second    models.RawSeat
	firstNum  int
	salePrice decimal.Decimal
	faceValue decimal.Decimal
}

// BuildOffers runs the full offer pipeline for one event. Output order is
// the tie-break order: sale price, first row character, first seat number.
func BuildOffers(event *models.Event, blocks []models.RawSeatBlock, excluded ExclusionSet) []models.InventoryOffer {
	candidates := collectCandidates(event, blocks, excluded)

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if c := a.salePrice.Cmp(b.salePrice); c != 0 {
			return c < 0
		}
		if ra, rb := rowSortKey(a.row), rowSortKey(b.row); ra != rb {
			return ra < rb
		}
		return a.firstNum < b.firstNum
	})

	seen := make(map[string]struct{}, len(candidates))
	offers := make([]models.InventoryOffer, 0, len(candidates))
	for i := range candidates {
		key := blockKey(candidates[i].section, candidates[i].row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		offers = append(offers, newOffer(event, &candidates[i]))
	}
	return offers
}

func collectCandidates(event *models.Event, blocks []models.RawSeatBlock, excluded ExclusionSet) []candidate {
	var out []candidate
	for bi := range blocks {
		block := &blocks[bi]

		available := make([]models.RawSeat, 0, len(block.Seats))
		for _, seat := range block.Seats {
			if seat.IsRestrictedView {
				continue
			}
			if excluded.Excluded(block.Section, block.Row, seat.Name) {
				continue
			}
			available = append(available, seat)
		}
		if len(available) == 0 {
			continue
		}

		class := Classify(available)
		if len(class.Seats) == 0 {
			continue
		}

		label := block.Section
		if class.Kind != models.PatternNone {
			if rule, ok := event.RuleFor(class.Kind); ok {
				label = block.Section + " " + rule.LabelSuffix
			}
		}

		for _, pair := range class.Pairs() {
			n, _ := SeatNumber(pair[0].Name)
			out = append(out, candidate{
				section:   label,
				row:       block.Row,
				first:     pair[0],
				second:    pair[1],
				firstNum:  n,
				salePrice: block.SalePrice,
				faceValue: block.FaceValue,
			})
		}
	}
	return out
}

// rowSortKey orders rows by their first character. Empty rows sort first.
func rowSortKey(row string) rune {
	for _, r := range row {
		return r
	}
	return 0
}

func newOffer(event *models.Event, c *candidate) models.InventoryOffer {
	seats := c.first.Name + "," + c.second.Name

	venue := event.VenueName
	if venue == "" {
		venue = models.DefaultVenueName
	}
	stockType := event.StockType
	if stockType == "" {
		stockType = models.DefaultStockType
	}
	markup := event.MarkupMultiplier
	if markup <= 0 {
		markup = models.DefaultMarkupMultiplier
	}
	inHand := event.PerformanceDateTime.Format(models.InHandDateLayout)
	if event.InHandDate != nil && !event.InHandDate.IsZero() {
		inHand = event.InHandDate.Format(models.InHandDateLayout)
	}

	return models.InventoryOffer{
		InventoryID:    GenerateID(event.EventKey, c.section, c.row, seats),
		EventKey:       event.EventKey,
		EventName:      event.DisplayName,
		VenueName:      venue,
		EventDate:      event.PerformanceDateTime.Format(models.EventDateLayout),
		Quantity:       models.OfferQuantity,
		Section:        c.section,
		Row:            c.row,
		Seats:          seats,
		ListPrice:      ListPrice(c.salePrice, markup),
		FacePrice:      c.faceValue,
		TaxedCost:      decimal.Zero,
		Cost:           c.salePrice,
		HideSeats:      models.OfferHideSeats,
		InHand:         models.OfferInHand,
		InHandDate:     inHand,
		InstantXfer:    models.OfferInstant,
		FilesAvailable: models.OfferFilesAvail,
		SplitType:      models.OfferSplitType,
		StockType:      stockType,
		Zone:           models.OfferZone,
	}
}
