// Package seed turns calendar dates into deterministic puzzle seeds.
package seed

import (
	"fmt"
	"time"
)

// DateFormat is the canonical YYYY-MM-DD layout used for all seed keys
const DateFormat = "2006-01-02"

// HashString computes a rolling 31x polynomial hash of s with 32-bit
// wraparound, returning the absolute value. Pure and stable across runs
// and platforms; changing it would reshuffle every past and future puzzle.
func HashString(s string) int {
	var h int32
	for _, c := range s {
		h = h*31 + int32(c)
	}
	n := int(h)
	if n < 0 {
		n = -n
	}
	return n
}

// DateSeed returns the deterministic seed for a YYYY-MM-DD date string
func DateSeed(date string) int {
	return HashString(date)
}

// VariationSeed derives a distinct deterministic seed from a base key, a
// tag and a variation index. Used by endless rounds and "next puzzle"
// draws to get a different movie without waiting a day.
func VariationSeed(base, tag string, variation int) int {
	return HashString(fmt.Sprintf("%s-%s-%d", base, tag, variation))
}

// Today returns the current UTC date string. All daily state is keyed on
// UTC so clients and the server-side cache agree on when the day rolls.
func Today(now time.Time) string {
	return now.UTC().Format(DateFormat)
}

// PreviousDay returns the date string for the calendar day before date.
// Returns empty on a malformed input.
func PreviousDay(date string) string {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateFormat)
}

// EndOfUTCDay returns the last instant of the UTC day containing now
func EndOfUTCDay(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 0, time.UTC)
}
