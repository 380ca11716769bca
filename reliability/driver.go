package reliability

import (
	"context"

	cache "github.com/odilia-app/cache"
)

// CircuitBreakerDriver wraps a cache.Driver with a circuit breaker so a
// stretch of failing bus calls stops reaching the bus and instead fails
// fast with ErrCircuitOpen, giving a wedged AT-SPI connection time to
// recover without every cache miss blocking on its timeout.
type CircuitBreakerDriver struct {
	driver  cache.Driver
	breaker Breaker
}

// NewCircuitBreakerDriver wraps driver with breaker.
func NewCircuitBreakerDriver(driver cache.Driver, breaker Breaker) *CircuitBreakerDriver {
	return &CircuitBreakerDriver{driver: driver, breaker: breaker}
}

func (d *CircuitBreakerDriver) LookupExternal(ctx context.Context, key cache.Key) (cache.Item, error) {
	if !d.breaker.Allow() {
		return cache.Item{}, ErrCircuitOpen
	}
	item, err := d.driver.LookupExternal(ctx, key)
	d.report(err)
	return item, err
}

func (d *CircuitBreakerDriver) LookupBulk(ctx context.Context, key cache.Key) ([]cache.Item, error) {
	if !d.breaker.Allow() {
		return nil, ErrCircuitOpen
	}
	items, err := d.driver.LookupBulk(ctx, key)
	d.report(err)
	return items, err
}

func (d *CircuitBreakerDriver) LookupRelations(ctx context.Context, key cache.Key, ty cache.RelationType) ([]cache.Key, error) {
	if !d.breaker.Allow() {
		return nil, ErrCircuitOpen
	}
	keys, err := d.driver.LookupRelations(ctx, key, ty)
	d.report(err)
	return keys, err
}

func (d *CircuitBreakerDriver) LookupFromDescriptor(ctx context.Context, desc cache.Descriptor) (cache.Item, error) {
	if !d.breaker.Allow() {
		return cache.Item{}, ErrCircuitOpen
	}
	item, err := d.driver.LookupFromDescriptor(ctx, desc)
	d.report(err)
	return item, err
}

func (d *CircuitBreakerDriver) LookupFromLegacyDescriptor(ctx context.Context, desc cache.LegacyDescriptor) (cache.Item, error) {
	if !d.breaker.Allow() {
		return cache.Item{}, ErrCircuitOpen
	}
	item, err := d.driver.LookupFromLegacyDescriptor(ctx, desc)
	d.report(err)
	return item, err
}

// report updates the breaker state based on err. A not-found result is not
// a driver failure — the bus answered correctly, it simply had nothing — so
// it is reported as a success.
func (d *CircuitBreakerDriver) report(err error) {
	if err != nil && err != cache.ErrNotFound {
		d.breaker.Failure()
	} else {
		d.breaker.Success()
	}
}

var _ cache.Driver = (*CircuitBreakerDriver)(nil)
