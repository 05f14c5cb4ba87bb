package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawRecord(t *testing.T) {
	day := time.Date(2021, 3, 7, 0, 0, 0, 0, time.UTC)

	t.Run("end of day stamp", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{
			DateChecked:      "2021-03-07T24:00:00Z",
			PositiveIncrease: 41265,
			NegativeIncrease: -5,
			DeathIncrease:    839,
			State:            "CA",
		})

		assert.Equal(t, day, r.Date)
		assert.Equal(t, 41265, r.PositiveIncrease)
		assert.Equal(t, -5, r.NegativeIncrease, "parsing does not clamp")
		assert.Equal(t, 839, r.DeathIncrease)
		assert.Equal(t, "CA", r.Region)
	})

	t.Run("RFC 3339 with time", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{DateChecked: "2021-03-07T16:30:00Z"})
		assert.Equal(t, day, r.Date)
	})

	t.Run("local timestamp without zone", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{DateChecked: "2021-03-07T08:00:00"})
		assert.Equal(t, day, r.Date)
	})

	t.Run("falls back to integer date", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{Date: "20210307"})
		assert.Equal(t, day, r.Date)
	})

	t.Run("unparseable stamp falls back to integer date", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{DateChecked: "not a date", Date: "20210307"})
		assert.Equal(t, day, r.Date)
	})

	t.Run("ISO date string", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{Date: "2021-03-07"})
		assert.Equal(t, day, r.Date)
	})

	t.Run("timestamp in date field", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{Date: "2021-03-07T24:00:00Z"})
		assert.Equal(t, day, r.Date)
	})

	t.Run("garbage date string", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{Date: "garbage", State: "TX"})
		assert.False(t, r.HasDate())
	})

	t.Run("missing date", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{State: "NY"})
		assert.False(t, r.HasDate())
	})

	t.Run("garbage date", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{DateChecked: "yesterday"})
		assert.False(t, r.HasDate())
	})

	t.Run("trims state code", func(t *testing.T) {
		r := ParseRawRecord(RawRecord{Date: "20210307", State: " TX "})
		assert.Equal(t, "TX", r.Region)
	})
}

func TestParseDateInt(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want time.Time
	}{
		{"valid", 20200302, time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"leap day", 20200229, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"zero", 0, time.Time{}},
		{"negative", -20200302, time.Time{}},
		{"month out of range", 20201302, time.Time{}},
		{"day overflow", 20210231, time.Time{}},
		{"too short", 302, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDateInt(tt.in))
		})
	}
}

func TestParseRawRecords_PreservesOrder(t *testing.T) {
	records := ParseRawRecords([]RawRecord{
		{Date: "20210103", State: "AK"},
		{Date: "20210102", State: "AL"},
	})

	assert.Len(t, records, 2)
	assert.Equal(t, "AK", records[0].Region)
	assert.Equal(t, "AL", records[1].Region)
}

func TestFeedDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want FeedDate
	}{
		{"string", `{"date":"2021-01-03"}`, "2021-01-03"},
		{"number", `{"date":20210103}`, "20210103"},
		{"garbage string", `{"date":"garbage"}`, "garbage"},
		{"null", `{"date":null}`, ""},
		{"missing", `{}`, ""},
		{"bool", `{"date":true}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw RawRecord
			require.NoError(t, json.Unmarshal([]byte(tt.in), &raw))
			assert.Equal(t, tt.want, raw.Date)
		})
	}
}

func TestFeedDate_MixedFeedDecodes(t *testing.T) {
	body := `[
		{"date":"2021-01-03","state":"NY","positiveIncrease":100},
		{"date":20210102,"state":"NY","positiveIncrease":80},
		{"date":"garbage","state":"TX","positiveIncrease":5}
	]`

	var raws []RawRecord
	require.NoError(t, json.Unmarshal([]byte(body), &raws))
	records := ParseRawRecords(raws)

	require.Len(t, records, 3)
	assert.Equal(t, time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC), records[1].Date)
	assert.False(t, records[2].HasDate())
}
