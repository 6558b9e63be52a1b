package gotext

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HitsMissesErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	f := newMockFetcher()
	f.fail[VersionKey{Ref: "Genesis 1:1", Language: "en"}] = errors.New("boom")

	m := NewManager(f, WithMetrics(metrics))

	_, err := m.Resolve(context.Background(), "Genesis 1:1", BothSlots())
	require.NoError(t, err)
	_, err = m.Resolve(context.Background(), "Genesis 1:1", SourceOnly())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.hits.WithLabelValues("source")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.misses.WithLabelValues("source")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.misses.WithLabelValues("translation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.fetchErrors.WithLabelValues("translation")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.fetchErrors.WithLabelValues("source")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.hit(SlotSource)
	m.miss(SlotTranslation)
	m.observeFetch(SlotSource, 0, errors.New("ignored"))
}
