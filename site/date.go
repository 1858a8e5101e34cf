package site

import (
	"strings"
	"time"
)

// DayLayout is the date format used in portal URLs and payloads.
const DayLayout = "2006-01-02"

// ParseDay parses the YYYY-MM-DD prefix of s as midnight in loc. Any
// time-of-day suffix ("T08:30:00") is discarded.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	date, _, _ := strings.Cut(s, "T")
	return time.ParseInLocation(DayLayout, strings.TrimSpace(date), loc)
}
