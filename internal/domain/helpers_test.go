package domain

import "time"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dailyRecords builds n consecutive days starting 2021-01-01, ascending, with
// PositiveIncrease equal to the 1-based day number.
func dailyRecords(region string, n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Date:             day(2021, time.January, 1).AddDate(0, 0, i),
			PositiveIncrease: i + 1,
			NegativeIncrease: (i + 1) * 10,
			DeathIncrease:    i % 3,
			Region:           region,
		}
	}
	return records
}
