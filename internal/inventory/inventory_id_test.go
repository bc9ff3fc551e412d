// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

package inventory

import (
	"fmt"
	"hash/crc32"
	"testing"
)

func TestSectionHash(t *testing.T) {
	for _, section := range []string{"Orchestra", "Mezzanine EVEN", "", "Balcony"} {
		want := fmt.Sprintf("%03d", crc32.ChecksumIEEE([]byte(section))%1000)
		got := SectionHash(section)
		checkStringEqual(t, "hash("+section+")", got, want)
		checkIntEqual(t, "len", len(got), 3)
	}
	// zlib.crc32(b"") == 0
	checkStringEqual(t, "empty", SectionHash(""), "000")
}

func TestRowCode(t *testing.T) {
	tests := []struct{ row, want string }{
		{"1", "01"},
		{"12", "12"},
		{"105", "105"},
		{"A", "1"},
		{"a", "1"},
		{"Z", "26"},
		{"AA", "11"},
		{"BB", "22"},
		{"A1", "11"},
		{"", "00"},
		{"-", "00"},
	}
	for _, tt := range tests {
		t.Run(tt.row, func(t *testing.T) {
			checkStringEqual(t, "RowCode", RowCode(tt.row), tt.want)
		})
	}
}

func TestFirstSeat(t *testing.T) {
	checkStringEqual(t, "pair", FirstSeat("101, 102"), "101")
	checkStringEqual(t, "padded", FirstSeat("  A5 ,A6"), "A5")
	checkStringEqual(t, "single", FirstSeat("9"), "9")
	checkStringEqual(t, "empty", FirstSeat(""), "")
}

func TestGenerateID(t *testing.T) {
	id := GenerateID("4471", "Orchestra", "A", "12,13")
	want := "4471" + SectionHash("Orchestra") + "1" + "12"
	checkStringEqual(t, "id", id, want)

	if again := GenerateID("4471", "Orchestra", "A", "12,13"); again != id {
		t.Errorf("GenerateID not deterministic: %q vs %q", again, id)
	}

	// Row "A" and row "1" must not collide for the same section and seat.
	if GenerateID("E", "S", "A", "5,6") == GenerateID("E", "S", "1", "5,6") {
		t.Error("row A and row 1 produced the same ID")
	}

	// Distinct first seats in one section and row give distinct IDs.
	if GenerateID("E", "S", "A", "5,6") == GenerateID("E", "S", "A", "7,8") {
		t.Error("different first seats produced the same ID")
	}
}
