package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// closings reconciliation service.
type Metrics struct {
	Refreshes       *prometheus.CounterVec // labels: outcome={success,error}
	RefreshDuration prometheus.Histogram

	FeedRows        prometheus.Counter
	RowsDropped     prometheus.Counter
	Classifications *prometheus.CounterVec // labels: category
	Matches         *prometheus.CounterVec // labels: catalog={districts,votech,charters}

	CacheLookups    *prometheus.CounterVec // labels: result={hit,refresh,stale,error}
	CatalogEntities *prometheus.GaugeVec   // labels: catalog

	SnapshotsPublished prometheus.Counter
	SnapshotErrors     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Refreshes,
		m.RefreshDuration,
		m.FeedRows,
		m.RowsDropped,
		m.Classifications,
		m.Matches,
		m.CacheLookups,
		m.CatalogEntities,
		m.SnapshotsPublished,
		m.SnapshotErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "closings",
			Name:      "refreshes_total",
			Help:      "Reconciliation passes by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "closings",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-classify-match cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FeedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "closings",
			Name:      "feed_rows_total",
			Help:      "Raw rows seen in the closings feed.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "closings",
			Name:      "feed_rows_dropped_total",
			Help:      "Feed rows dropped for missing an entity label.",
		}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "closings",
			Name:      "classifications_total",
			Help:      "Classified records by status category.",
		}, []string{"category"}),
		Matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "closings",
			Name:      "matches_total",
			Help:      "Entities matched to a closure record, by catalog.",
		}, []string{"catalog"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "closings",
			Name:      "cache_lookups_total",
			Help:      "Freshness cache lookups by result.",
		}, []string{"result"}),
		CatalogEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "closings",
			Name:      "catalog_entities",
			Help:      "Entities loaded per catalog.",
		}, []string{"catalog"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "closings",
			Name:      "snapshots_published_total",
			Help:      "Reconciliation snapshots published to the sink topic.",
		}),
		SnapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "closings",
			Name:      "snapshot_errors_total",
			Help:      "Snapshot publish failures.",
		}),
	}
}
