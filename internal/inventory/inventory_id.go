// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package inventory

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
	"unicode"
)

// SectionHash is CRC-32 (IEEE) of the section label modulo 1000, zero
// padded to three digits.
func SectionHash(section string) string {
	return fmt.Sprintf("%03d", crc32.ChecksumIEEE([]byte(section))%1000)
}

// RowCode renders a row as digits. Numeric rows are padded to two digits.
// Otherwise each letter maps A=1 through Z=26 and the codes are
// concatenated, digits pass through and any other character is ignored.
// A row that yields nothing becomes "00".
func RowCode(row string) string {
	row = strings.TrimSpace(row)
	if row != "" && isDigits(row) {
		if len(row) < 2 {
			return "0" + row
		}
		return row
	}

	var b strings.Builder
	for _, r := range row {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsLetter(r):
			u := unicode.ToUpper(r)
			if u >= 'A' && u <= 'Z' {
				b.WriteString(strconv.Itoa(int(u-'A') + 1))
			}
		}
	}
	if b.Len() == 0 {
		return "00"
	}
	return b.String()
}

// FirstSeat returns the trimmed text before the first comma.
func FirstSeat(seatsCSV string) string {
	first, _, _ := strings.Cut(seatsCSV, ",")
	return strings.TrimSpace(first)
}

// GenerateID derives the inventory ID for one offer. It is the join of
// eventKey, SectionHash, RowCode and FirstSeat and is stable across runs,
// which the store relies on to update rather than duplicate a listing.
func GenerateID(eventKey, section, row, seatsCSV string) string {
	return eventKey + SectionHash(section) + RowCode(row) + FirstSeat(seatsCSV)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
