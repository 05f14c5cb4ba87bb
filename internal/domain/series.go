package domain

// Series exposes a record sequence as an indexable chart series for one
// metric and time window. A Series is immutable: WithMetric and WithWindow
// return new values, so bounds computed for one view never leak into another.
type Series struct {
	records []Record
	metric  Metric
	window  Window
}

// NewSeries builds a series over records, which must be in ascending date order.
func NewSeries(records []Record, metric Metric, window Window) Series {
	return Series{records: records, metric: metric, window: window}
}

func (s Series) Metric() Metric { return s.metric }

func (s Series) Window() Window { return s.window }

// WithMetric returns a copy of s displaying m.
func (s Series) WithMetric(m Metric) Series {
	s.metric = m
	return s
}

// WithWindow returns a copy of s limited to w.
func (s Series) WithWindow(w Window) Series {
	s.window = w
	return s
}

// Count is the number of points visible under the current window. It never
// exceeds the number of available records.
func (s Series) Count() int {
	n := len(s.records)
	if size := s.window.Size(); size > 0 && size < n {
		return size
	}
	return n
}

// ValueAt returns the metric value of the index-th visible point, where 0 is
// the oldest visible record. Callers must keep index below Count.
func (s Series) ValueAt(index int) float64 {
	return float64(s.metric.Value(s.RecordAt(index)))
}

// RecordAt returns the index-th visible record.
func (s Series) RecordAt(index int) Record {
	return s.visible()[index]
}

// Bounds returns the minimum and maximum visible values. ok is false for an
// empty series.
func (s Series) Bounds() (lo, hi float64, ok bool) {
	n := s.Count()
	if n == 0 {
		return 0, 0, false
	}
	lo, hi = s.ValueAt(0), s.ValueAt(0)
	for i := 1; i < n; i++ {
		v := s.ValueAt(i)
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, true
}

// Latest returns the newest record of the whole sequence, ignoring the window.
func (s Series) Latest() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[len(s.records)-1], true
}

func (s Series) visible() []Record {
	return s.records[len(s.records)-s.Count():]
}
