package cache

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/odilia-app/cache"

// RegisterOTel registers c's counters as OpenTelemetry observable
// instruments against the global meter provider. Every instrument is
// sourced from a single RegisterCallback reading c.Metrics.Snapshot(), so
// all six values of one scrape come from the same Snapshot call.
func RegisterOTel(c *Cache) error {
	meter := otel.GetMeterProvider().Meter(instrumentationName)

	hits, err := meter.Int64ObservableCounter("cache.hits", metric.WithDescription("Total number of get-or-create hits"))
	if err != nil {
		return err
	}
	misses, err := meter.Int64ObservableCounter("cache.misses", metric.WithDescription("Total number of get-or-create misses"))
	if err != nil {
		return err
	}
	adds, err := meter.Int64ObservableCounter("cache.adds", metric.WithDescription("Total number of Add/AddAll insertions attempted"))
	if err != nil {
		return err
	}
	removes, err := meter.Int64ObservableCounter("cache.removes", metric.WithDescription("Total number of successful removals"))
	if err != nil {
		return err
	}
	bulkPrefetches, err := meter.Int64ObservableCounter("cache.bulk_prefetches", metric.WithDescription("Total number of whole-application bulk prefetches"))
	if err != nil {
		return err
	}
	queueDepth, err := meter.Int64ObservableGauge("cache.queue_depth", metric.WithDescription("Current depth of the actor's pending request queue"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		snap := c.Metrics.Snapshot()
		o.ObserveInt64(hits, snap.Hits)
		o.ObserveInt64(misses, snap.Misses)
		o.ObserveInt64(adds, snap.Adds)
		o.ObserveInt64(removes, snap.Removes)
		o.ObserveInt64(bulkPrefetches, snap.BulkPrefetches)
		o.ObserveInt64(queueDepth, snap.QueueDepth)
		return nil
	}, hits, misses, adds, removes, bulkPrefetches, queueDepth)

	return err
}
