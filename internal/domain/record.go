package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// RawRecord is the JSON object returned by both daily feeds.
type RawRecord struct {
	DateChecked      string   `json:"dateChecked"`
	Date             FeedDate `json:"date"`
	PositiveIncrease int      `json:"positiveIncrease"`
	NegativeIncrease int      `json:"negativeIncrease"`
	DeathIncrease    int      `json:"deathIncrease"`
	State            string   `json:"state"`
}

// FeedDate is the text of an entry's "date" field. The feeds carry it either
// as a string ("2021-03-07") or as a yyyymmdd number (20210307); both decode
// here and are parsed later, so one bad entry never fails the whole feed.
type FeedDate string

// UnmarshalJSON accepts a JSON string or number. Any other value decodes as
// an empty date.
func (d *FeedDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		*d = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = FeedDate(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			*d = ""
			return nil
		}
		*d = FeedDate(n.String())
	}
	return nil
}

// Record is a single day of statistics for one region, or for the nation
// when Region is empty. A Record without a valid date has a zero Date.
type Record struct {
	Date             time.Time `json:"date"`
	PositiveIncrease int       `json:"positive_increase"`
	NegativeIncrease int       `json:"negative_increase"`
	DeathIncrease    int       `json:"death_increase"`
	Region           string    `json:"region,omitempty"`
}

// HasDate reports whether the record carries a parsed calendar date.
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// Grouping maps a region code to its records in ascending date order.
type Grouping map[string][]Record

// Dataset is an immutable snapshot of everything the dashboard displays.
// It is rebuilt in full on every fetch.
type Dataset struct {
	National   []Record  `json:"-"`
	Regional   Grouping  `json:"-"`
	Version    uint64    `json:"version"`
	NationalAt time.Time `json:"national_at"`
	RegionalAt time.Time `json:"regional_at"`
}

// HasNational reports whether national data has been loaded.
func (d Dataset) HasNational() bool {
	return len(d.National) > 0
}
