package builtin

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayouts are tried in order by ParseDate. Month-first slash forms come
// before day-first ones; the latter only match when the day exceeds 12.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"02/01/2006",
	"01-02-2006",
	"02-01-2006",
	"02.01.2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"20060102",
	"2006-01",
	"Jan 2006",
	"January 2006",
}

var (
	yearQuarter = regexp.MustCompile(`(?i)^(\d{4})\s*-?\s*Q([1-4])$`)
	quarterYear = regexp.MustCompile(`(?i)^Q([1-4])\s*[- ]?\s*(\d{4})$`)
)

// ParseDate parses s with DateLayouts, then with quarter labels such as
// "2023Q2", "2023-Q2" or "Q2 2023", which map to the first day of the
// quarter. extra layouts are tried first.
func ParseDate(s string, extra ...string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range extra {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if m := yearQuarter.FindStringSubmatch(s); m != nil {
		return quarterStart(m[1], m[2]), true
	}
	if m := quarterYear.FindStringSubmatch(s); m != nil {
		return quarterStart(m[2], m[1]), true
	}
	return time.Time{}, false
}

func quarterStart(year, q string) time.Time {
	y, _ := strconv.Atoi(year)
	n, _ := strconv.Atoi(q)
	return time.Date(y, time.Month(3*(n-1)+1), 1, 0, 0, 0, 0, time.UTC)
}

// QuarterLabel renders the calendar quarter of t as "2023Q2".
func QuarterLabel(t time.Time) string {
	return strconv.Itoa(t.Year()) + "Q" + strconv.Itoa((int(t.Month())-1)/3+1)
}
