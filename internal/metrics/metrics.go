// Package metrics exposes Prometheus collectors for the scraper run.
package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Label values shared by the observe helpers.
const (
	KindListing = "listing"
	KindArticle = "article"

	OutcomeOK           = "ok"
	OutcomeHTTPError    = "http_error"
	OutcomeNetworkError = "network_error"

	ArticleParsed  = "parsed"
	ArticlePartial = "partial"
	ArticleEmpty   = "empty"

	ArtifactRaw  = "raw"
	ArtifactMeta = "meta"
)

var (
	fetchesTotal   *prometheus.CounterVec
	fetchedBytes   *prometheus.CounterVec
	articlesTotal  *prometheus.CounterVec
	anomaliesTotal *prometheus.CounterVec
	artifactsTotal *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_fetches_total",
				Help: "Total number of page fetches, labeled by page kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)

		fetchedBytes = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_fetched_bytes_total",
				Help: "Total number of body bytes fetched, labeled by page kind.",
			},
			[]string{"kind"},
		)

		articlesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_articles_total",
				Help: "Total number of article records produced, labeled by status.",
			},
			[]string{"status"},
		)

		anomaliesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_extraction_anomalies_total",
				Help: "Total number of missing-markup anomalies, labeled by field.",
			},
			[]string{"field"},
		)

		artifactsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_artifacts_total",
				Help: "Total number of artifacts written, labeled by artifact kind.",
			},
			[]string{"kind"},
		)
	})
}

// ObserveFetch records one page fetch and the bytes it returned.
func ObserveFetch(kind, outcome string, bytes int) {
	if fetchesTotal == nil {
		return
	}
	fetchesTotal.WithLabelValues(kind, outcome).Inc()
	if bytes > 0 {
		fetchedBytes.WithLabelValues(kind).Add(float64(bytes))
	}
}

// ObserveArticle records one produced article record.
func ObserveArticle(status string) {
	if articlesTotal == nil {
		return
	}
	articlesTotal.WithLabelValues(status).Inc()
}

// ObserveAnomaly records a missing-markup anomaly for a record field.
func ObserveAnomaly(field string) {
	if anomaliesTotal == nil {
		return
	}
	anomaliesTotal.WithLabelValues(field).Inc()
}

// ObserveArtifact records one artifact written by a sink.
func ObserveArtifact(kind string) {
	if artifactsTotal == nil {
		return
	}
	artifactsTotal.WithLabelValues(kind).Inc()
}

// Snapshot gathers the harvest_* metric families from the default registry
// and sums each into a single value. A batch run has no scrape endpoint, so
// the runner logs this snapshot when the run completes.
func Snapshot() map[string]float64 {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil
	}
	totals := make(map[string]float64)
	for _, family := range families {
		name := family.GetName()
		if !strings.HasPrefix(name, "harvest_") {
			continue
		}
		var sum float64
		for _, m := range family.GetMetric() {
			sum += metricValue(m)
		}
		totals[name] = sum
	}
	return totals
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}
