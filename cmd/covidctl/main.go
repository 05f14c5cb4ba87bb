// Command covidctl fetches the daily feeds once and prints the selected
// series the way the dashboard would render it.
//
// Usage:
//
//	go run ./cmd/covidctl -region NY -metric death -window week
//	go run ./cmd/covidctl -list-regions
//	go run ./cmd/covidctl -png us.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/adapter/chart"
	"github.com/couchcryptid/covid-tracker-service/internal/adapter/covidtracking"
	"github.com/couchcryptid/covid-tracker-service/internal/dashboard"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
)

type options struct {
	baseURL     string
	region      string
	metric      string
	window      string
	timeout     time.Duration
	png         string
	listRegions bool
}

func main() {
	var opts options
	flag.StringVar(&opts.baseURL, "base-url", "https://api.covidtracking.com/v1", "COVID Tracking API base URL")
	flag.StringVar(&opts.region, "region", domain.AllStates, "region code, or \"All States\" for the national series")
	flag.StringVar(&opts.metric, "metric", "positive", "metric: positive, negative, or death")
	flag.StringVar(&opts.window, "window", "max", "window: week, month, or max")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")
	flag.StringVar(&opts.png, "png", "", "write the chart to this PNG file")
	flag.BoolVar(&opts.listRegions, "list-regions", false, "print selectable regions and exit")
	flag.Parse()

	os.Exit(run(context.Background(), opts, os.Stdout, os.Stderr))
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	state, err := viewState(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetricsForTesting()
	client := covidtracking.NewClient(opts.baseURL, opts.timeout, metrics, logger)

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	dataset, err := load(ctx, client, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if opts.listRegions {
		for _, name := range domain.RegionNames(dataset.Regional) {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	v := domain.Render(state, dataset)
	printView(stdout, v)

	if opts.png != "" {
		img, err := chart.NewRenderer(800, 400, metrics).Render(v)
		if err != nil {
			fmt.Fprintf(stderr, "render chart: %v\n", err)
			return 1
		}
		if err := os.WriteFile(opts.png, img, 0o644); err != nil {
			fmt.Fprintf(stderr, "write %s: %v\n", opts.png, err)
			return 1
		}
		fmt.Fprintf(stdout, "chart written to %s\n", opts.png)
	}
	return 0
}

func viewState(opts options) (domain.ViewState, error) {
	m, err := domain.ParseMetric(opts.metric)
	if err != nil {
		return domain.ViewState{}, err
	}
	w, err := domain.ParseWindow(opts.window)
	if err != nil {
		return domain.ViewState{}, err
	}
	return domain.ViewState{Region: opts.region, Metric: m, Window: w}, nil
}

// load fetches both feeds concurrently. A states failure still yields the
// national series; a national failure is fatal.
func load(ctx context.Context, client *covidtracking.Client, stderr io.Writer) (domain.Dataset, error) {
	nationalCh := dashboard.FetchAsync(ctx, client.FetchNational)
	statesCh := dashboard.FetchAsync(ctx, client.FetchStates)

	national := <-nationalCh
	states := <-statesCh

	if !national.OK() {
		return domain.Dataset{}, fmt.Errorf("national feed: %w", national.Err)
	}
	ds := domain.Dataset{National: domain.NationalSeries(national.Value), Version: 1}
	if states.OK() {
		ds.Regional = domain.RegionalGrouping(states.Value)
	} else if !errors.Is(states.Err, context.Canceled) {
		fmt.Fprintf(stderr, "states feed unavailable: %v\n", states.Err)
	}
	return ds, nil
}

func printView(w io.Writer, v domain.View) {
	fmt.Fprintf(w, "%s: daily %s (%s)\n", v.Region, v.Metric, v.Window)
	if v.Headline != nil {
		fmt.Fprintf(w, "latest: %s on %s\n", v.Headline.FormattedValue, v.Headline.FormattedDate)
	}
	for _, p := range v.Points {
		fmt.Fprintf(w, "%s  %s\n", domain.FormatDate(p.Date), domain.FormatCount(int(p.Value)))
	}
}
