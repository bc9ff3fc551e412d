// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package inventory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zaidejaz/todaytix-scraper/internal/models"
)

// Classification is the result of Classify. When Kind is not PatternNone,
// Seats has an even length of at least two and is ordered by seat number.
type Classification struct {
	Kind  models.PatternKind
	Seats []models.RawSeat
}

// Pairs splits Seats into consecutive two-seat groups, lowest first. A
// trailing unpaired seat is dropped.
func (c Classification) Pairs() [][2]models.RawSeat {
	pairs := make([][2]models.RawSeat, 0, len(c.Seats)/2)
	for i := 0; i+1 < len(c.Seats); i += 2 {
		pairs = append(pairs, [2]models.RawSeat{c.Seats[i], c.Seats[i+1]})
	}
	return pairs
}

// SeatNumber concatenates every digit in name and parses the result.
// "A12" and "12" both give 12. Names without digits return false.
func SeatNumber(name string) (int, bool) {
	var b strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

type numberedSeat struct {
	num  int
	seat models.RawSeat
}

// Classify orders seats by number and labels the block. Precedence is
// even, odd, consecutive, none, and a single numbered seat is always none.
// For consecutive, every adjacent pair whose numbers differ by exactly one
// is emitted in order, so a run such as 14,15,16 yields the pairs (14,15)
// and (15,16). None keeps every numbered seat for positional pairing.
func Classify(seats []models.RawSeat) Classification {
	numbered := make([]numberedSeat, 0, len(seats))
	for _, s := range seats {
		if n, ok := SeatNumber(s.Name); ok {
			numbered = append(numbered, numberedSeat{num: n, seat: s})
		}
	}
	if len(numbered) == 0 {
		return Classification{Kind: models.PatternNone}
	}

	sort.SliceStable(numbered, func(i, j int) bool {
		return numbered[i].num < numbered[j].num
	})

	ordered := make([]models.RawSeat, len(numbered))
	allEven, allOdd := true, true
	for i, ns := range numbered {
		ordered[i] = ns.seat
		if ns.num%2 == 0 {
			allOdd = false
		} else {
			allEven = false
		}
	}

	if len(ordered) >= 2 {
		// Parity patterns keep an even number of seats, dropping the highest.
		paired := ordered[:len(ordered)&^1]
		switch {
		case allEven:
			return Classification{Kind: models.PatternEven, Seats: paired}
		case allOdd:
			return Classification{Kind: models.PatternOdd, Seats: paired}
		}
	}

	var consecutive []models.RawSeat
	for i := 0; i+1 < len(numbered); i++ {
		if numbered[i+1].num == numbered[i].num+1 {
			consecutive = append(consecutive, numbered[i].seat, numbered[i+1].seat)
		}
	}
	if len(consecutive) > 0 {
		return Classification{Kind: models.PatternConsecutive, Seats: consecutive}
	}

	return Classification{Kind: models.PatternNone, Seats: ordered}
}
