package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	cache "github.com/odilia-app/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingDriver returns a non-not-found error from every method, so the
// breaker sees it as a real failure rather than a clean miss.
type failingDriver struct{}

func (failingDriver) LookupExternal(context.Context, cache.Key) (cache.Item, error) {
	return cache.Item{}, errors.New("bus unavailable")
}
func (failingDriver) LookupBulk(context.Context, cache.Key) ([]cache.Item, error) {
	return nil, errors.New("bus unavailable")
}
func (failingDriver) LookupRelations(context.Context, cache.Key, cache.RelationType) ([]cache.Key, error) {
	return nil, errors.New("bus unavailable")
}
func (failingDriver) LookupFromDescriptor(context.Context, cache.Descriptor) (cache.Item, error) {
	return cache.Item{}, errors.New("bus unavailable")
}
func (failingDriver) LookupFromLegacyDescriptor(context.Context, cache.LegacyDescriptor) (cache.Item, error) {
	return cache.Item{}, errors.New("bus unavailable")
}

func TestGobreakerBreakerTripsAndRecovers(t *testing.T) {
	b := NewGobreakerBreaker("test", 3, 50*time.Millisecond)

	assert.True(t, b.Allow())

	b.Failure()
	b.Failure()
	assert.True(t, b.Allow())

	b.Failure()
	assert.False(t, b.Allow())

	time.Sleep(100 * time.Millisecond)
	assert.True(t, b.Allow())

	b.Success()
	assert.True(t, b.Allow())
}

func TestCircuitBreakerDriverOpensAfterFailures(t *testing.T) {
	key := cache.NewKey("app1", "/missing")

	breaker := NewGobreakerBreaker("driver-test", 1, time.Second)
	guarded := NewCircuitBreakerDriver(failingDriver{}, breaker)

	ctx := context.Background()

	_, err := guarded.LookupExternal(ctx, key)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCircuitOpen)

	_, err = guarded.LookupExternal(ctx, key)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}
