// Package metrics exposes Prometheus counters for the parse and ingest
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Document outcomes.
const (
	OutcomeParsed = "parsed"
	OutcomeFailed = "failed"
)

// Download outcomes.
const (
	DownloadFetched = "fetched"
	DownloadCached  = "cached"
	DownloadFailed  = "failed"
)

const namespace = "ptr"

// Collector holds the pipeline metrics registered on one registry.
type Collector struct {
	registry *prometheus.Registry

	documents     *prometheus.CounterVec
	transactions  prometheus.Counter
	downloads     *prometheus.CounterVec
	reportsStored prometheus.Counter
	parseDuration prometheus.Histogram
}

// NewCollector creates a Collector on a fresh registry that also carries the
// Go runtime and process collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewCollectorWith(registry)
}

// NewCollectorWith registers the pipeline metrics on registry.
func NewCollectorWith(registry *prometheus.Registry) *Collector {
	c := &Collector{
		registry: registry,
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_parsed_total",
			Help:      "Documents run through the parser, by outcome and failure kind.",
		}, []string{"outcome", "kind"}),
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_parsed_total",
			Help:      "Transactions extracted from successfully parsed documents.",
		}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Report downloads, by outcome.",
		}, []string{"outcome"}),
		reportsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_stored_total",
			Help:      "Reports written to the database.",
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent extracting and parsing one document.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
	registry.MustRegister(c.documents, c.transactions, c.downloads, c.reportsStored, c.parseDuration)
	return c
}

// ObserveParse records one parsed document. kind is empty on success.
func (c *Collector) ObserveParse(kind string, transactions int, elapsed time.Duration) {
	if c == nil {
		return
	}
	outcome := OutcomeParsed
	if kind != "" {
		outcome = OutcomeFailed
	}
	c.documents.WithLabelValues(outcome, kind).Inc()
	c.transactions.Add(float64(transactions))
	c.parseDuration.Observe(elapsed.Seconds())
}

// ObserveDownload records one download attempt.
func (c *Collector) ObserveDownload(outcome string) {
	if c == nil {
		return
	}
	c.downloads.WithLabelValues(outcome).Inc()
}

// ObserveStored records reports written to the database.
func (c *Collector) ObserveStored(reports int) {
	if c == nil || reports <= 0 {
		return
	}
	c.reportsStored.Add(float64(reports))
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
