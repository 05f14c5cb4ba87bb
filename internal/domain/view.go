package domain

import (
	"fmt"
	"time"
)

// ViewState is what the user has selected. It is a value: every interaction
// produces a new ViewState and a fresh Render.
type ViewState struct {
	Region string
	Metric Metric
	Window Window
}

// DefaultViewState is shown whenever new data arrives: the national series,
// positive cases, full history.
func DefaultViewState() ViewState {
	return ViewState{Region: AllStates, Metric: MetricPositive, Window: WindowMax}
}

// Key identifies the rendered output of s for a dataset version. Two views
// with the same key draw the same chart.
func (s ViewState) Key(version uint64) string {
	return fmt.Sprintf("v%d|%s|%s|%s", version, s.Region, s.Metric, s.Window)
}

// Point is one plotted value.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Headline is the label shown above the chart: a single day's value of the
// selected metric.
type Headline struct {
	Date           time.Time `json:"date"`
	Value          int       `json:"value"`
	FormattedValue string    `json:"formatted_value"`
	FormattedDate  string    `json:"formatted_date"`
}

// NewHeadline formats r's value for metric.
func NewHeadline(r Record, metric Metric) Headline {
	v := metric.Value(r)
	return Headline{
		Date:           r.Date,
		Value:          v,
		FormattedValue: FormatCount(v),
		FormattedDate:  FormatDate(r.Date),
	}
}

// View is everything needed to draw the chart and its labels.
type View struct {
	Region   string    `json:"region"`
	Metric   string    `json:"metric"`
	Window   string    `json:"window"`
	Version  uint64    `json:"version"`
	Points   []Point   `json:"points"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Headline *Headline `json:"headline,omitempty"`

	state ViewState
}

// State returns the ViewState the view was rendered from.
func (v View) State() ViewState { return v.state }

// Key identifies the chart this view draws.
func (v View) Key() string { return v.state.Key(v.Version) }

// SeriesFor selects the records for state.Region and wraps them in a Series.
func SeriesFor(state ViewState, d Dataset) Series {
	return NewSeries(Select(state.Region, d.Regional, d.National), state.Metric, state.Window)
}

// Render computes the view for state over d. The headline always reflects the
// newest record of the selected sequence, independent of the window. A region
// the dataset does not know renders as AllStates.
func Render(state ViewState, d Dataset) View {
	state.Region = ResolveRegion(state.Region, d.Regional)
	s := SeriesFor(state, d)
	v := View{
		Region:  state.Region,
		Metric:  state.Metric.String(),
		Window:  state.Window.String(),
		Version: d.Version,
		Points:  make([]Point, s.Count()),
		state:   state,
	}
	for i := range v.Points {
		v.Points[i] = Point{Date: s.RecordAt(i).Date, Value: s.ValueAt(i)}
	}
	if lo, hi, ok := s.Bounds(); ok {
		v.Min, v.Max = lo, hi
	}
	if latest, ok := s.Latest(); ok {
		h := NewHeadline(latest, state.Metric)
		v.Headline = &h
	}
	return v
}

// Scrub returns the headline for the index-th visible point, as shown while
// the user drags across the chart. ok is false when index is out of range.
func Scrub(state ViewState, d Dataset, index int) (Headline, bool) {
	s := SeriesFor(state, d)
	if index < 0 || index >= s.Count() {
		return Headline{}, false
	}
	return NewHeadline(s.RecordAt(index), state.Metric), true
}
