package timex

import (
	"fmt"
	"strings"
	"time"
)

// ISO8601 is the layout intervals are rendered with.
const ISO8601 = "2006-01-02T15:04:05-07:00"

// Layouts accepted by ParseISO8601, most precise first. Reduced precision
// forms ("2013-01-26T00", "2013-01-26T00:15") are interpreted in UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
	"20060102T150405Z0700",
	"20060102T150405",
	"20060102",
}

// AlignTime aligns time to specified time unit. When roundUp is true, rounds up; when false, rounds down
func AlignTime(t time.Time, timeUnit time.Duration, roundUp bool) time.Time {
	trunc := t.Truncate(timeUnit)
	if roundUp && !t.Equal(trunc) {
		return trunc.Add(timeUnit)
	}
	return trunc
}

// StartOfDay returns midnight UTC of t's UTC day.
func StartOfDay(t time.Time) time.Time {
	return AlignTime(t.UTC(), 24*time.Hour, false)
}

// ParseISO8601 parses an ISO-8601 date or date-time, accepting reduced
// precision.
func ParseISO8601(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO8601 date %q", s)
}

// FormatISO8601 renders t with second precision and a numeric offset.
func FormatISO8601(t time.Time) string {
	return t.Format(ISO8601)
}

// Normalize parses s and formats it back in the canonical layout.
func Normalize(s string) (string, error) {
	t, err := ParseISO8601(s)
	if err != nil {
		return "", err
	}
	return FormatISO8601(t), nil
}
