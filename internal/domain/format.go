package domain

import (
	"time"

	"github.com/dustin/go-humanize"
)

// DisplayDateLayout renders dates as "Mar 02, 2020".
const DisplayDateLayout = "Jan 02, 2006"

// FormatCount renders n with thousands separators, e.g. 1234567 -> "1,234,567".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatDate renders t in DisplayDateLayout, or "" for a zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateLayout)
}
