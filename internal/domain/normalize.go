package domain

// NormalizeNational returns the national feed in ascending date order.
// National records are kept as they are; the feed is assumed to be dated.
func NormalizeNational(records []Record) []Record {
	return reversed(records)
}

// NormalizeRegional prepares the per-state feed for grouping: records without
// a valid date are dropped, negative counts are clamped to zero, and the
// result is in ascending date order. The input slice is not modified.
func NormalizeRegional(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if !r.HasDate() {
			continue
		}
		r.PositiveIncrease = max(0, r.PositiveIncrease)
		r.NegativeIncrease = max(0, r.NegativeIncrease)
		r.DeathIncrease = max(0, r.DeathIncrease)
		out = append(out, r)
	}
	return out
}

func reversed(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

// NationalSeries runs the national pipeline over a raw feed. Any state code
// in the national feed is ignored.
func NationalSeries(raws []RawRecord) []Record {
	records := ParseRawRecords(raws)
	for i := range records {
		records[i].Region = ""
	}
	return NormalizeNational(records)
}

// RegionalGrouping runs the per-state pipeline over a raw feed.
func RegionalGrouping(raws []RawRecord) Grouping {
	return GroupByRegion(NormalizeRegional(ParseRawRecords(raws)))
}
