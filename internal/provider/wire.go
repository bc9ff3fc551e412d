// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package provider

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// proxyEnvelope is the proxy's response. Content holds the upstream body as
// a JSON-encoded string.
type proxyEnvelope struct {
	Content string `json:"content"`
}

type showsPayload struct {
	Data []wireShow `json:"data"`
}

type wireShow struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
}

type showtimesPayload struct {
	Data []wireShowtime `json:"data"`
}

type wireShowtime struct {
	ID        int64  `json:"id"`
	Datetime  string `json:"datetime"`
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
	DayOfWeek string `json:"dayOfWeek"`
}

type sectionsPayload struct {
	Data []wireSection `json:"data"`
}

type wireSection struct {
	Name       string          `json:"name"`
	SeatBlocks []wireSeatBlock `json:"seatBlocks"`
}

type wireMoney struct {
	Value decimal.Decimal `json:"value"`
}

type wireSeatBlock struct {
	Row        string    `json:"row"`
	SalePrice  wireMoney `json:"salePrice"`
	FaceValue  wireMoney `json:"faceValue"`
	FeeSummary struct {
		Convenience wireMoney `json:"convenience"`
		Concierge   wireMoney `json:"concierge"`
		OrderFee    wireMoney `json:"orderFee"`
	} `json:"feeSummary"`
	Seats []wireSeat `json:"seats"`
}

type wireSeat struct {
	Name             string `json:"name"`
	IsRestrictedView bool   `json:"isRestrictedView"`
}

func (s wireShow) toModel() models.ShowRef {
	return models.ShowRef{
		ID:          strconv.FormatInt(s.ID, 10),
		DisplayName: s.DisplayName,
	}
}

func (s wireShowtime) toModel() models.Showtime {
	return models.Showtime{
		ID:        strconv.FormatInt(s.ID, 10),
		DateTime:  s.Datetime,
		LocalDate: s.LocalDate,
		LocalTime: s.LocalTime,
		DayOfWeek: s.DayOfWeek,
	}
}

// flattenSections yields one RawSeatBlock per (section, seat block).
func flattenSections(sections []wireSection) []models.RawSeatBlock {
	var blocks []models.RawSeatBlock
	for _, sec := range sections {
		for _, b := range sec.SeatBlocks {
			seats := make([]models.RawSeat, len(b.Seats))
			for i, s := range b.Seats {
				seats[i] = models.RawSeat{Name: s.Name, IsRestrictedView: s.IsRestrictedView}
			}
			blocks = append(blocks, models.RawSeatBlock{
				Section:   sec.Name,
				Row:       b.Row,
				SalePrice: b.SalePrice.Value,
				FaceValue: b.FaceValue.Value,
				Fees: models.Fees{
					Convenience: b.FeeSummary.Convenience.Value,
					Concierge:   b.FeeSummary.Concierge.Value,
					Order:       b.FeeSummary.OrderFee.Value,
				},
				Seats: seats,
			})
		}
	}
	return blocks
}
