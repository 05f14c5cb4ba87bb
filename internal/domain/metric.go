package domain

import (
	"fmt"
	"strings"
)

// Metric selects which daily count a series displays.
type Metric int

const (
	MetricPositive Metric = iota
	MetricNegative
	MetricDeath
)

func (m Metric) String() string {
	switch m {
	case MetricPositive:
		return "positive"
	case MetricNegative:
		return "negative"
	case MetricDeath:
		return "death"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Value returns the count of r selected by m.
func (m Metric) Value(r Record) int {
	switch m {
	case MetricNegative:
		return r.NegativeIncrease
	case MetricDeath:
		return r.DeathIncrease
	default:
		return r.PositiveIncrease
	}
}

// ParseMetric accepts "positive", "negative" or "death", case-insensitively.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return MetricPositive, nil
	case "negative":
		return MetricNegative, nil
	case "death":
		return MetricDeath, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", s)
	}
}

// Window limits a series to its most recent records.
type Window int

const (
	WindowMax Window = iota
	WindowWeek
	WindowMonth
)

func (w Window) String() string {
	switch w {
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	case WindowMax:
		return "max"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

// Size is the number of records the window keeps, or 0 for no limit.
// Records are daily, so a week is 7 records rather than 7 calendar days.
func (w Window) Size() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	default:
		return 0
	}
}

// ParseWindow accepts "week", "month" or "max", case-insensitively.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week":
		return WindowWeek, nil
	case "month":
		return WindowMonth, nil
	case "max":
		return WindowMax, nil
	default:
		return 0, fmt.Errorf("unknown window %q", s)
	}
}
