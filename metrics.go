package gotext

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for a Manager. A nil *Metrics is a no-op.
type Metrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// NewMetrics registers the version cache collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotext_cache_hits_total",
			Help: "The total number of version cache hits",
		}, []string{"slot"}),
		misses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotext_cache_misses_total",
			Help: "The total number of version cache misses",
		}, []string{"slot"}),
		fetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotext_fetch_errors_total",
			Help: "The total number of failed version fetches",
		}, []string{"slot"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gotext_fetch_duration_seconds",
			Help:    "Duration of version fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"slot"}),
	}
}

func (m *Metrics) hit(s Slot) {
	if m == nil {
		return
	}
	m.hits.WithLabelValues(string(s)).Inc()
}

func (m *Metrics) miss(s Slot) {
	if m == nil {
		return
	}
	m.misses.WithLabelValues(string(s)).Inc()
}

func (m *Metrics) observeFetch(s Slot, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(string(s)).Observe(d.Seconds())
	if err != nil {
		m.fetchErrors.WithLabelValues(string(s)).Inc()
	}
}
