package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CacheSizer reports current cache occupancy.
type CacheSizer interface {
	Len() int
}

// Collector exposes the operation counters and cache occupancy as
// Prometheus metrics. It reads live values on every scrape, so no
// update loop is needed.
type Collector struct {
	counters *Counters
	cache    CacheSizer

	opsDesc     *prometheus.Desc
	latencyDesc *prometheus.Desc
	entriesDesc *prometheus.Desc
}

// NewCollector creates a collector over the given counters and cache.
// cache may be nil, in which case the occupancy gauge is omitted.
func NewCollector(counters *Counters, cache CacheSizer) *Collector {
	return &Collector{
		counters: counters,
		cache:    cache,
		opsDesc: prometheus.NewDesc(
			"macpulse_operations_total",
			"Total operations per category.",
			[]string{"category"}, nil,
		),
		latencyDesc: prometheus.NewDesc(
			"macpulse_operation_latency_seconds_total",
			"Cumulative operation latency per category.",
			[]string{"category"}, nil,
		),
		entriesDesc: prometheus.NewDesc(
			"macpulse_cache_entries",
			"Current number of cached device entries.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.opsDesc
	ch <- c.latencyDesc
	if c.cache != nil {
		ch <- c.entriesDesc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, snap := range c.counters.Snapshot() {
		ch <- prometheus.MustNewConstMetric(
			c.opsDesc, prometheus.CounterValue,
			float64(snap.Invocations), name,
		)
		ch <- prometheus.MustNewConstMetric(
			c.latencyDesc, prometheus.CounterValue,
			snap.TotalElapsed.Seconds(), name,
		)
	}

	if c.cache != nil {
		ch <- prometheus.MustNewConstMetric(
			c.entriesDesc, prometheus.GaugeValue,
			float64(c.cache.Len()),
		)
	}
}

// NewRegistry creates a Prometheus registry with the application
// collector plus the standard Go runtime and process collectors.
func NewRegistry(counters *Counters, cache CacheSizer) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewCollector(counters, cache),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
