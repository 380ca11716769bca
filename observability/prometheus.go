package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	cache "github.com/odilia-app/cache"
)

// PrometheusCollector exports a Cache's Metrics to Prometheus.
type PrometheusCollector struct {
	c *cache.Cache

	hits           *prometheus.Desc
	misses         *prometheus.Desc
	adds           *prometheus.Desc
	removes        *prometheus.Desc
	bulkPrefetches *prometheus.Desc
	queueDepth     *prometheus.Desc
}

// NewPrometheusCollector creates a collector for c. Namespace and subsystem
// are optional but recommended (e.g. "odilia", "cache").
func NewPrometheusCollector(c *cache.Cache, namespace, subsystem string) *PrometheusCollector {
	return &PrometheusCollector{
		c: c,
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "hits_total"),
			"Total number of get-or-create hits", nil, nil,
		),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "misses_total"),
			"Total number of get-or-create misses", nil, nil,
		),
		adds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "adds_total"),
			"Total number of Add/AddAll insertions attempted", nil, nil,
		),
		removes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "removes_total"),
			"Total number of successful removals", nil, nil,
		),
		bulkPrefetches: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "bulk_prefetches_total"),
			"Total number of whole-application bulk prefetches", nil, nil,
		),
		queueDepth: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "queue_depth"),
			"Current depth of the actor's pending request queue", nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (p *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.hits
	ch <- p.misses
	ch <- p.adds
	ch <- p.removes
	ch <- p.bulkPrefetches
	ch <- p.queueDepth
}

// Collect implements prometheus.Collector.
func (p *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	snap := p.c.Metrics.Snapshot()
	ch <- prometheus.MustNewConstMetric(p.hits, prometheus.CounterValue, float64(snap.Hits))
	ch <- prometheus.MustNewConstMetric(p.misses, prometheus.CounterValue, float64(snap.Misses))
	ch <- prometheus.MustNewConstMetric(p.adds, prometheus.CounterValue, float64(snap.Adds))
	ch <- prometheus.MustNewConstMetric(p.removes, prometheus.CounterValue, float64(snap.Removes))
	ch <- prometheus.MustNewConstMetric(p.bulkPrefetches, prometheus.CounterValue, float64(snap.BulkPrefetches))
	ch <- prometheus.MustNewConstMetric(p.queueDepth, prometheus.GaugeValue, float64(snap.QueueDepth))
}
