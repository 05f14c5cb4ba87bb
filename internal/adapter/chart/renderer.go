package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a view has no points to draw.
var ErrNoData = errors.New("no data to chart")

// metricColors mirrors the dashboard palette: positive, negative, death.
var metricColors = map[string]drawing.Color{
	domain.MetricPositive.String(): drawing.ColorFromHex("d32f2f"),
	domain.MetricNegative.String(): drawing.ColorFromHex("388e3c"),
	domain.MetricDeath.String():    drawing.ColorFromHex("424242"),
}

// Renderer draws a View as a PNG line chart.
type Renderer struct {
	width   int
	height  int
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer producing width x height images.
func NewRenderer(width, height int, metrics *observability.Metrics) *Renderer {
	return &Renderer{width: width, height: height, metrics: metrics}
}

// Render returns the PNG encoding of v.
func (r *Renderer) Render(v domain.View) ([]byte, error) {
	if len(v.Points) == 0 {
		return nil, ErrNoData
	}

	start := time.Now()
	graph := r.build(v)

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		r.metrics.ChartRenders.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("render chart %s: %w", v.Key(), err)
	}

	r.metrics.ChartRenders.WithLabelValues("success").Inc()
	r.metrics.ChartRenderDuration.Observe(time.Since(start).Seconds())
	return buf.Bytes(), nil
}

func (r *Renderer) build(v domain.View) gochart.Chart {
	xs := make([]time.Time, len(v.Points))
	ys := make([]float64, len(v.Points))
	for i, p := range v.Points {
		xs[i] = p.Date
		ys[i] = p.Value
	}
	// A single point has no x range; widen it by a day so the axis can scale.
	if len(xs) == 1 {
		xs = append(xs, xs[0].AddDate(0, 0, 1))
		ys = append(ys, ys[0])
	}

	lo := min(0, v.Min)
	hi := v.Max
	if hi <= lo {
		hi = lo + 1
	}

	color, ok := metricColors[v.Metric]
	if !ok {
		color = gochart.ColorBlue
	}

	return gochart.Chart{
		Title:      chartTitle(v),
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("Jan 02"),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(val interface{}) string {
				if f, ok := val.(float64); ok {
					return domain.FormatCount(int(f))
				}
				return ""
			},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    v.Metric,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
				},
			},
		},
	}
}

func chartTitle(v domain.View) string {
	title := fmt.Sprintf("%s: daily %s (%s)", v.Region, v.Metric, v.Window)
	if v.Headline != nil {
		title += fmt.Sprintf(" | %s on %s", v.Headline.FormattedValue, v.Headline.FormattedDate)
	}
	return title
}
