// Package dateutils provides the date parsing and sanity checks used throughout the application.
package dateutils

import (
	"regexp"
	"strings"
	"time"
)

// Date layouts accepted from the extraction oracle
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutBrazilian = "02/01/2006"
	DateLayoutDashed    = "02-01-2006"
	DateLayoutDotted    = "02.01.2006"
	DateLayoutSlashISO  = "2006/01/02"
)

// ConversionFormats is the ordered list of layouts tried by ConvertToISODate.
// Single-digit day/month variants follow each two-digit layout.
var ConversionFormats = []string{
	DateLayoutISO,
	DateLayoutBrazilian, "2/1/2006",
	DateLayoutDashed, "2-1-2006",
	DateLayoutDotted, "2.1.2006",
	DateLayoutSlashISO, "2006/1/2",
}

var isoShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidISODate reports whether s has the exact YYYY-MM-DD shape and names a real calendar date.
func IsValidISODate(s string) bool {
	if !isoShape.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayoutISO, s)
	return err == nil
}

// ConvertToISODate converts s from one of ConversionFormats into YYYY-MM-DD.
// The second return value is false when no layout matches.
func ConvertToISODate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return ToISODate(t), true
}

// ParseDate parses s with the first matching layout of ConversionFormats.
func ParseDate(s string) (time.Time, bool) {
	s = CleanDateString(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range ConversionFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

var multiSpace = regexp.MustCompile(`\s+`)

// CleanDateString trims whitespace and collapses inner runs of spaces.
func CleanDateString(dateStr string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// Truncate returns the calendar day of t at midnight UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WithinWindow reports whether date lies no more than maxAgeDays before today
// and no more than maxFutureDays after it. Only calendar days are compared.
func WithinWindow(date, today time.Time, maxAgeDays, maxFutureDays int) bool {
	d := Truncate(date)
	t := Truncate(today)
	if d.Before(t.AddDate(0, 0, -maxAgeDays)) {
		return false
	}
	return !d.After(t.AddDate(0, 0, maxFutureDays))
}
