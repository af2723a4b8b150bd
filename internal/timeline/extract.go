// Package timeline turns free-text date mentions into urgency
// assessments relative to a fixed reference date.
package timeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthNames = "January|February|March|April|May|June|July|August|September|October|November|December"

var (
	// "June 12", "December 3"
	monthDayPattern = regexp.MustCompile(`(` + monthNames + `)\s+(\d{1,2})`)
	// "12th June", "3 December"; the ordinal suffix is optional and not
	// checked for grammatical correctness ("2st June" is accepted)
	dayMonthPattern = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthNames + `)`)
)

var monthNumbers = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// Extractor resolves date mentions into calendar dates within a fixed
// conference year.
type Extractor struct {
	Year int
}

// Extract scans text for a date mention, trying the "June 12" form
// first and "12th June" second. Only the first match of a pattern is
// considered. The boolean is false when no resolvable date is present;
// that is a normal outcome, not an error.
func (e Extractor) Extract(text string) (time.Time, bool) {
	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		if d, ok := e.resolve(m[1], m[2]); ok {
			return d, true
		}
	}
	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		if d, ok := e.resolve(m[2], m[1]); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func (e Extractor) resolve(monthName, dayStr string) (time.Time, bool) {
	month, ok := monthNumbers[strings.ToLower(monthName)]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	d := time.Date(e.Year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days ("June 31" becomes July 1);
	// an invalid combination must yield no date, not a shifted one
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
