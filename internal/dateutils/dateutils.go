// Package dateutils provides transaction date parsing and date arithmetic used throughout the application.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Common date layout constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutBrazil   = "02/01/2006"
	DateLayoutUS       = "1/2/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutISOShort = "2006-01-02 15:04"
)

// ISOFormats are tried first, regardless of locale preference
var ISOFormats = []string{
	DateLayoutISO,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayoutFull,
	DateLayoutISOShort,
	"2006/01/02",
	// unpadded month and day
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"2006/1/2",
	"2006/1/2 15:04",
	"2006/1/2 15:04:05",
}

// USFormats are the month-first layouts; skipped when DayFirst is set
var USFormats = []string{
	DateLayoutUS,
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// TextFormats carry a month name and are unambiguous
var TextFormats = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC1123,
	time.RFC1123Z,
}

var dayMonthYear = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)

var whitespace = regexp.MustCompile(`\s+`)

// DateParser reads transaction dates from loosely formatted input.
// With DayFirst set, an ambiguous "05/01/2024" is read as 5 January.
type DateParser struct {
	DayFirst bool
}

// ParseTransactionDate parses a transaction date with the default month-first
// locale preference. See DateParser.Parse.
func ParseTransactionDate(value any) (time.Time, bool) {
	return DateParser{}.Parse(value)
}

// Parse converts value into a calendar date at 00:00 UTC. The boolean is false
// when the value is not a recognizable date.
//
// Layout based parsing is attempted first; failing that, a leading
// day/month/year pattern with "/" or "-" separators is accepted, anything after
// it being ignored. Two digit years are taken as 20xx.
func (p DateParser) Parse(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return Normalize(v), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return Normalize(*v), true
	case string:
		return p.parseString(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		// numeric cells carry no calendar information
		return time.Time{}, false
	}

	str, err := cast.ToStringE(value)
	if err != nil {
		return time.Time{}, false
	}
	return p.parseString(str)
}

func (p DateParser) parseString(raw string) (time.Time, bool) {
	str := CleanDateString(raw)
	if str == "" {
		return time.Time{}, false
	}

	if t, ok := parseLayouts(str, ISOFormats); ok {
		return t, true
	}
	if !p.DayFirst {
		if t, ok := parseLayouts(str, USFormats); ok {
			return t, true
		}
	}
	if t, ok := parseLayouts(str, TextFormats); ok {
		return t, true
	}

	return parseDayMonthYear(str)
}

func parseLayouts(str string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, str); err == nil {
			return Normalize(t), true
		}
	}
	return time.Time{}, false
}

func parseDayMonthYear(str string) (time.Time, bool) {
	match := dayMonthYear.FindStringSubmatch(str)
	if match == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if year < 100 {
		year += 2000
	}

	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date rolls 31/02 over into March
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// Normalize returns the calendar date of t, as written in its own location,
// at midnight UTC.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from earlier to later,
// clamped to zero when later is before earlier.
func DaysBetween(earlier, later time.Time) int {
	days := int(later.Sub(earlier).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// FormatDate formats a time.Time value according to the specified layout
// If no layout is provided, DateLayoutISO is used
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// CleanDateString trims a date string and collapses inner whitespace
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
