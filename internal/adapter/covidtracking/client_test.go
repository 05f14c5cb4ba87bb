package covidtracking

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"

	nationalBody = `[
		{"date":20210307,"dateChecked":"2021-03-07T24:00:00Z","positiveIncrease":41265,"negativeIncrease":-5,"deathIncrease":842},
		{"date":20210306,"dateChecked":"2021-03-06T24:00:00Z","positiveIncrease":60015,"negativeIncrease":1234,"deathIncrease":1680}
	]`
	statesBody = `[
		{"date":20210307,"state":"AK","dateChecked":"2021-03-05T03:59:00Z","positiveIncrease":0,"negativeIncrease":0,"deathIncrease":0},
		{"date":20210307,"state":"AL","dateChecked":"2021-03-07T11:00:00Z","positiveIncrease":408,"negativeIncrease":2087,"deathIncrease":-1}
	]`
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serveJSON(t *testing.T, wantPath, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchNational_Success(t *testing.T) {
	srv := serveJSON(t, "/v1/us/daily.json", nationalBody)
	c := testClient(srv.URL + "/v1/")

	records, err := c.FetchNational(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "2021-03-07T24:00:00Z", records[0].DateChecked)
	assert.Equal(t, domain.FeedDate("20210307"), records[0].Date)
	assert.Equal(t, 41265, records[0].PositiveIncrease)
	assert.Equal(t, -5, records[0].NegativeIncrease)
	assert.Empty(t, records[0].State)

	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(FeedNational, "success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.metrics.RecordsFetched.WithLabelValues(FeedNational)), 0)
}

func TestClient_FetchStates_Success(t *testing.T) {
	srv := serveJSON(t, "/states/daily.json", statesBody)
	c := testClient(srv.URL)

	records, err := c.FetchStates(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "AK", records[0].State)
	assert.Equal(t, "AL", records[1].State)
	assert.Equal(t, -1, records[1].DeathIncrease)
}

func TestClient_StringDates(t *testing.T) {
	srv := serveJSON(t, "/us/daily.json", `[
		{"date":"2021-01-03","positiveIncrease":100,"negativeIncrease":50,"deathIncrease":2},
		{"date":"2021-01-02","positiveIncrease":80,"negativeIncrease":40,"deathIncrease":1},
		{"date":"2021-01-01","positiveIncrease":60,"negativeIncrease":30,"deathIncrease":0}
	]`)
	c := testClient(srv.URL)

	raws, err := c.FetchNational(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 3)
	assert.Equal(t, domain.FeedDate("2021-01-03"), raws[0].Date)

	national := domain.NationalSeries(raws)
	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), national[0].Date)
	assert.Equal(t, 100, national[2].PositiveIncrease)
}

func TestClient_GarbageDateKeepsFeed(t *testing.T) {
	srv := serveJSON(t, "/states/daily.json", `[
		{"date":"2021-01-03","state":"NY","positiveIncrease":5},
		{"date":"garbage","state":"TX","positiveIncrease":7}
	]`)
	c := testClient(srv.URL)

	raws, err := c.FetchStates(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 2)

	g := domain.RegionalGrouping(raws)
	assert.Equal(t, []string{"NY"}, g.Regions())
}

func TestClient_NullCountsDecodeAsZero(t *testing.T) {
	srv := serveJSON(t, "/us/daily.json", `[{"dateChecked":"2020-03-02T21:00:00Z","positiveIncrease":null,"negativeIncrease":null,"deathIncrease":null}]`)
	c := testClient(srv.URL)

	records, err := c.FetchNational(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].PositiveIncrease)
	assert.Zero(t, records[0].DeathIncrease)
}

func TestClient_EmptyResponses(t *testing.T) {
	for name, body := range map[string]string{
		"null":        "null",
		"empty array": "[]",
		"no body":     "",
	} {
		t.Run(name, func(t *testing.T) {
			srv := serveJSON(t, "/us/daily.json", body)
			c := testClient(srv.URL)

			_, err := c.FetchNational(context.Background())
			require.ErrorIs(t, err, ErrEmptyResponse)
			assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(FeedNational, "empty")), 0)
		})
	}
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"maintenance"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.FetchStates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "maintenance")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(FeedStates, "error")), 0)
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := serveJSON(t, "/us/daily.json", `{"not":"an array"}`)
	c := testClient(srv.URL)

	_, err := c.FetchNational(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "decode national feed")
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := serveJSON(t, "/us/daily.json", nationalBody)
	c := testClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchNational(ctx)
	require.Error(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.FetchRequests.WithLabelValues(FeedNational, "cancelled")), 0)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := testClient(url)
	_, err := c.FetchNational(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "national feed request")
}
