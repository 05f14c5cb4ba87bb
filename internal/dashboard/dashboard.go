package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Feed names used in logs, status, and metrics.
const (
	FeedNational = "national"
	FeedStates   = "states"
)

// ErrNotReady is returned by View until national data has loaded.
var ErrNotReady = errors.New("national data has not loaded yet")

// Source fetches the two raw daily feeds.
type Source interface {
	FetchNational(ctx context.Context) ([]domain.RawRecord, error)
	FetchStates(ctx context.Context) ([]domain.RawRecord, error)
}

// Publisher receives every record applied by a refresh.
type Publisher interface {
	Publish(ctx context.Context, refreshID string, records []domain.Record) error
}

// Status is the user-visible state of the data feeds. A failed fetch keeps
// the previous data and reports its error here until the next success.
type Status struct {
	Version         uint64    `json:"version"`
	NationalAt      time.Time `json:"national_at"`
	RegionalAt      time.Time `json:"regional_at"`
	NationalRecords int       `json:"national_records"`
	Regions         int       `json:"regions"`
	NationalError   string    `json:"national_error,omitempty"`
	RegionalError   string    `json:"regional_error,omitempty"`
	LastRefreshID   string    `json:"last_refresh_id,omitempty"`
}

// Option customizes a Dashboard.
type Option func(*Dashboard)

// WithClock replaces the real clock, letting tests drive the refresh loop.
func WithClock(c clockwork.Clock) Option {
	return func(d *Dashboard) { d.clock = c }
}

// WithInterval sets the refresh period. Zero refreshes once and stops.
func WithInterval(interval time.Duration) Option {
	return func(d *Dashboard) { d.interval = interval }
}

// WithPublisher forwards applied records to p after every refresh.
func WithPublisher(p Publisher) Option {
	return func(d *Dashboard) { d.publisher = p }
}

// Dashboard owns the current dataset and keeps it fresh.
type Dashboard struct {
	source    Source
	publisher Publisher
	clock     clockwork.Clock
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics

	// refreshing holds a token while a Refresh runs.
	refreshing chan struct{}

	mu      sync.RWMutex
	dataset domain.Dataset
	status  Status
}

// New creates a Dashboard reading from source.
func New(source Source, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Dashboard {
	d := &Dashboard{
		source:     source,
		clock:      clockwork.NewRealClock(),
		logger:     logger,
		metrics:    metrics,
		refreshing: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Snapshot returns the current dataset. The returned value is never modified.
func (d *Dashboard) Snapshot() domain.Dataset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dataset
}

// Status reports data freshness and the last fetch errors.
func (d *Dashboard) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// CheckReadiness returns nil once national data has loaded.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if !d.Snapshot().HasNational() {
		return ErrNotReady
	}
	return nil
}

// Regions returns the selectable region names for the current dataset.
func (d *Dashboard) Regions() []string {
	return domain.RegionNames(d.Snapshot().Regional)
}

// View renders state against the current dataset.
func (d *Dashboard) View(state domain.ViewState) (domain.View, error) {
	ds := d.Snapshot()
	if !ds.HasNational() {
		return domain.View{}, ErrNotReady
	}
	return domain.Render(state, ds), nil
}

// Scrub returns the headline for the index-th visible point of state.
func (d *Dashboard) Scrub(state domain.ViewState, index int) (domain.Headline, bool, error) {
	ds := d.Snapshot()
	if !ds.HasNational() {
		return domain.Headline{}, false, ErrNotReady
	}
	h, ok := domain.Scrub(state, ds, index)
	return h, ok, nil
}

// Run refreshes immediately and then every interval until ctx is cancelled.
// Refresh failures are logged and never stop the loop.
func (d *Dashboard) Run(ctx context.Context) error {
	d.logger.Info("refresh loop started", "interval", d.interval)
	d.metrics.RefreshRunning.Set(1)
	defer d.metrics.RefreshRunning.Set(0)

	d.refreshAndLog(ctx)
	if d.interval <= 0 {
		return nil
	}

	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("refresh loop stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			d.refreshAndLog(ctx)
		}
	}
}

func (d *Dashboard) refreshAndLog(ctx context.Context) {
	if err := d.Refresh(ctx); err != nil && ctx.Err() == nil {
		d.logger.Warn("refresh incomplete", "error", err)
	}
}

// Refresh fetches both feeds concurrently and applies each result as soon as
// it arrives, so the national view can update before the state list. Results
// arriving after ctx is cancelled are discarded. Refreshes run one at a time;
// a caller arriving during a refresh waits for it to finish. The returned
// error joins the failures of both feeds.
func (d *Dashboard) Refresh(ctx context.Context) error {
	refreshID := uuid.NewString()
	logger := d.logger.With("refresh_id", refreshID)

	select {
	case d.refreshing <- struct{}{}:
	default:
		logger.Debug("waiting for running refresh")
		select {
		case d.refreshing <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	defer func() { <-d.refreshing }()

	nationalCh := FetchAsync(ctx, d.source.FetchNational)
	statesCh := FetchAsync(ctx, d.source.FetchStates)

	var (
		national []domain.Record
		regional domain.Grouping
		errs     []error
	)
	for nationalCh != nil || statesCh != nil {
		select {
		case res := <-nationalCh:
			nationalCh = nil
			records, err := d.applyNational(ctx, logger, refreshID, res)
			if err != nil {
				errs = append(errs, err)
			}
			national = records
		case res := <-statesCh:
			statesCh = nil
			g, err := d.applyStates(ctx, logger, refreshID, res)
			if err != nil {
				errs = append(errs, err)
			}
			regional = g
		}
	}

	applied := make([]domain.Record, 0, len(national))
	applied = append(applied, national...)
	for _, region := range regional.Regions() {
		applied = append(applied, regional[region]...)
	}

	d.metrics.LastRefreshTime.Set(float64(d.clock.Now().Unix()))
	d.publish(ctx, logger, refreshID, applied)
	return errors.Join(errs...)
}

func (d *Dashboard) applyNational(ctx context.Context, logger *slog.Logger, refreshID string, res domain.Result[[]domain.RawRecord]) ([]domain.Record, error) {
	if err := d.checkResult(ctx, logger, FeedNational, res); err != nil {
		return nil, err
	}

	national := domain.NationalSeries(res.Value)

	d.mu.Lock()
	next := d.dataset
	next.National = national
	next.NationalAt = d.clock.Now()
	next.Version++
	d.dataset = next
	d.status.NationalError = ""
	d.syncStatusLocked(refreshID)
	d.mu.Unlock()

	d.metrics.DatasetVersion.Set(float64(next.Version))
	logger.Info("national data updated", "records", len(national), "version", next.Version)
	return national, nil
}

func (d *Dashboard) applyStates(ctx context.Context, logger *slog.Logger, refreshID string, res domain.Result[[]domain.RawRecord]) (domain.Grouping, error) {
	if err := d.checkResult(ctx, logger, FeedStates, res); err != nil {
		return nil, err
	}

	normalized := domain.NormalizeRegional(domain.ParseRawRecords(res.Value))
	if dropped := len(res.Value) - len(normalized); dropped > 0 {
		d.metrics.RecordsDropped.Add(float64(dropped))
		logger.Debug("undated state records dropped", "count", dropped)
	}
	g := domain.GroupByRegion(normalized)

	d.mu.Lock()
	next := d.dataset
	next.Regional = g
	next.RegionalAt = d.clock.Now()
	next.Version++
	d.dataset = next
	d.status.RegionalError = ""
	d.syncStatusLocked(refreshID)
	d.mu.Unlock()

	d.metrics.RegionsTracked.Set(float64(len(g)))
	d.metrics.DatasetVersion.Set(float64(next.Version))
	logger.Info("state data updated", "regions", len(g), "records", len(normalized), "version", next.Version)
	return g, nil
}

// checkResult matches a fetch result, recording failures in the status.
func (d *Dashboard) checkResult(ctx context.Context, logger *slog.Logger, feed string, res domain.Result[[]domain.RawRecord]) error {
	if ctx.Err() != nil {
		logger.Debug("discarding result after cancellation", "feed", feed)
		return fmt.Errorf("%s feed: %w", feed, ctx.Err())
	}
	if res.OK() {
		return nil
	}

	logger.Warn("fetch failed, keeping previous data", "feed", feed, "error", res.Err)
	d.mu.Lock()
	if feed == FeedNational {
		d.status.NationalError = res.Err.Error()
	} else {
		d.status.RegionalError = res.Err.Error()
	}
	d.mu.Unlock()
	return fmt.Errorf("%s feed: %w", feed, res.Err)
}

func (d *Dashboard) syncStatusLocked(refreshID string) {
	d.status.Version = d.dataset.Version
	d.status.NationalAt = d.dataset.NationalAt
	d.status.RegionalAt = d.dataset.RegionalAt
	d.status.NationalRecords = len(d.dataset.National)
	d.status.Regions = len(d.dataset.Regional)
	d.status.LastRefreshID = refreshID
}

func (d *Dashboard) publish(ctx context.Context, logger *slog.Logger, refreshID string, records []domain.Record) {
	if d.publisher == nil || len(records) == 0 || ctx.Err() != nil {
		return
	}
	if err := d.publisher.Publish(ctx, refreshID, records); err != nil {
		d.metrics.PublishErrors.Inc()
		logger.Error("publish records failed", "error", err, "count", len(records))
		return
	}
	d.metrics.RecordsPublished.Add(float64(len(records)))
}
