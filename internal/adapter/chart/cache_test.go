package chart

import (
	"errors"
	"testing"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRenderer struct {
	calls int
	err   error
}

func (m *countingRenderer) Render(v domain.View) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []byte(v.Key()), nil
}

func renderView(state domain.ViewState, version uint64) domain.View {
	return domain.Render(state, domain.Dataset{Version: version})
}

func TestCachedRenderer_Hit(t *testing.T) {
	inner := &countingRenderer{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedRenderer(inner, 10, metrics)
	v := renderView(domain.DefaultViewState(), 1)

	first, err := cached.Render(v)
	require.NoError(t, err)
	second, err := cached.Render(v)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ChartCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ChartCache.WithLabelValues("miss")), 0)
}

func TestCachedRenderer_NewVersionMisses(t *testing.T) {
	inner := &countingRenderer{}
	cached := NewCachedRenderer(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Render(renderView(domain.DefaultViewState(), 1))
	require.NoError(t, err)
	_, err = cached.Render(renderView(domain.DefaultViewState(), 2))
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedRenderer_StateChangeMisses(t *testing.T) {
	inner := &countingRenderer{}
	cached := NewCachedRenderer(inner, 10, observability.NewMetricsForTesting())

	state := domain.DefaultViewState()
	_, err := cached.Render(renderView(state, 1))
	require.NoError(t, err)

	state.Metric = domain.MetricDeath
	_, err = cached.Render(renderView(state, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedRenderer_ErrorNotCached(t *testing.T) {
	inner := &countingRenderer{err: errors.New("boom")}
	cached := NewCachedRenderer(inner, 10, observability.NewMetricsForTesting())
	v := renderView(domain.DefaultViewState(), 1)

	_, err := cached.Render(v)
	require.Error(t, err)
	_, err = cached.Render(v)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.cache.len())
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []byte("1"))
	c.put("b", []byte("2"))
	c.get("a") // a is now most recently used
	c.put("c", []byte("3"))

	_, ok := c.get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []byte("1"))
	c.put("a", []byte("2"))

	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("2"), v)
	assert.Equal(t, 1, c.len())
}
