package domain

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order against "dateChecked" and "date".
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseRawRecord converts a feed entry into a Record. A missing or
// unparseable date yields a Record with a zero Date; counts are copied
// unchanged, including negative corrections.
func ParseRawRecord(raw RawRecord) Record {
	return Record{
		Date:             parseDate(raw.DateChecked, raw.Date),
		PositiveIncrease: raw.PositiveIncrease,
		NegativeIncrease: raw.NegativeIncrease,
		DeathIncrease:    raw.DeathIncrease,
		Region:           strings.TrimSpace(raw.State),
	}
}

// ParseRawRecords converts a whole feed, preserving its order.
func ParseRawRecords(raws []RawRecord) []Record {
	records := make([]Record, len(raws))
	for i, raw := range raws {
		records[i] = ParseRawRecord(raw)
	}
	return records
}

// parseDate resolves the calendar day of a feed entry, truncated to midnight
// UTC. "dateChecked" wins over "date". Returns zero time if neither field
// holds a usable date.
func parseDate(checked string, date FeedDate) time.Time {
	if t, ok := parseStamp(checked); ok {
		return t
	}
	s := strings.TrimSpace(string(date))
	if t, ok := parseStamp(s); ok {
		return t
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return time.Time{}
	}
	return parseDateInt(n)
}

func parseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	// "T24:00:00Z" end-of-day stamps only parse by their date prefix.
	if len(s) >= 10 {
		if t, err := time.Parse(time.DateOnly, s[:10]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDateInt parses the integer "date" field, e.g. 20210307.
func parseDateInt(v int) time.Time {
	if v <= 0 {
		return time.Time{}
	}
	year, month, day := v/10000, (v/100)%100, v%100
	if year < 1900 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject overflowed days such as 20210231.
	if t.Day() != day {
		return time.Time{}
	}
	return t
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
