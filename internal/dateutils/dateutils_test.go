package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidISODate(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"2025-12-26", true},
		{"2024-02-29", true},
		{"2025-02-30", false},
		{"2025-02-29", false},
		{"26/12/2025", false},
		{"2025-1-5", false},
		{" 2025-12-26", false},
		{"2025-12-26T10:00:00", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidISODate(tc.input))
		})
	}
}

func TestConvertToISODate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"ISO", "2025-12-26", "2025-12-26", true},
		{"Brazilian slash", "26/12/2025", "2025-12-26", true},
		{"Dashed", "26-12-2025", "2025-12-26", true},
		{"Dotted", "26.12.2025", "2025-12-26", true},
		{"Slash ISO", "2025/12/26", "2025-12-26", true},
		{"Single digit day", "5/1/2025", "2025-01-05", true},
		{"Padded whitespace", "  26/12/2025 ", "2025-12-26", true},
		{"English prose", "December 26, 2025", "", false},
		{"Impossible date", "30/02/2025", "", false},
		{"Empty", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ConvertToISODate(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestWithinWindow(t *testing.T) {
	today := time.Date(2025, 12, 26, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"today", today, true},
		{"yesterday", today.AddDate(0, 0, -1), true},
		{"exactly two years", today.AddDate(0, 0, -730), true},
		{"older than two years", today.AddDate(0, 0, -731), false},
		{"five years ago", today.AddDate(-5, 0, 0), false},
		{"tomorrow", today.AddDate(0, 0, 1), true},
		{"two days ahead", today.AddDate(0, 0, 2), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, WithinWindow(tc.date, today, 730, 1))
		})
	}
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "26 12 2025", CleanDateString("  26   12\t2025 "))
}
