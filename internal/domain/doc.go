// Package domain models COVID Tracking Project daily statistics and the
// transformations that turn the raw feeds into a chart-ready series.
//
// # Data Source
//
// Daily counts come from the COVID Tracking Project API at
// https://api.covidtracking.com/v1/. Two feeds are consumed:
//
//	us/daily.json      one national aggregate per day
//	states/daily.json  one entry per state per day
//
// Both feeds are ordered newest-first. Every series in this package is
// ordered oldest-first, so both pipelines reverse their input.
//
// # Feed Conventions
//
// Date format:
//
//	"dateChecked" is an ISO-8601-like timestamp, e.g. "2021-03-07T24:00:00Z".
//	The API emits hour 24 for end-of-day stamps, which strict RFC 3339 parsers
//	reject, so the leading "YYYY-MM-DD" is used when the full stamp does not
//	parse. When "dateChecked" is absent the integer "date" field (20210307)
//	is used instead. Only the calendar day is kept.
//
// Counts:
//
//	positiveIncrease, negativeIncrease and deathIncrease are daily deltas.
//	Upstream corrections occasionally publish negative deltas; the regional
//	pipeline clamps them to zero. Null counts decode as zero.
//
// State codes:
//
//	Two-letter postal abbreviations plus territories ("AS", "GU", "MP",
//	"PR", "VI"). National records carry no code.
//
// # Regions
//
// The synthetic region [AllStates] selects the national series. It is always
// first in [RegionNames] and never appears as a key of a [Grouping].
package domain
