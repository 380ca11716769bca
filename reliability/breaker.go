package reliability

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the circuit breaker is open and a driver
// call is rejected without ever reaching the bus.
var ErrCircuitOpen = errors.New("reliability: circuit breaker is open")

// Breaker defines the interface a CircuitBreakerDriver reports call outcomes
// to and consults before every call.
type Breaker interface {
	// Allow reports whether a call should proceed.
	Allow() bool

	// Success reports a call that completed without error.
	Success()

	// Failure reports a call that returned an error.
	Failure()
}

// GobreakerBreaker adapts github.com/sony/gobreaker's CircuitBreaker to the
// Breaker interface. gobreaker already implements the generation-counted
// half-open probe a hand-rolled threshold breaker would otherwise have to
// reinvent.
type GobreakerBreaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewGobreakerBreaker wraps a gobreaker.CircuitBreaker configured to trip
// after consecutive failures reach threshold and to probe again after
// timeout.
func NewGobreakerBreaker(name string, threshold uint32, timeout time.Duration) *GobreakerBreaker {
	st := gobreaker.Settings{
		Name:    name,
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}
	return &GobreakerBreaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Allow reports whether the breaker's current state permits a call. It does
// not itself invoke anything; CircuitBreakerDriver uses it only as a guard,
// then reports the outcome separately through Success/Failure so both the
// guard and the report happen from the same call site.
func (b *GobreakerBreaker) Allow() bool {
	return b.cb.State() != gobreaker.StateOpen
}

// Success reports a successful call. gobreaker has no direct "report a
// success that happened outside Execute" entry point, so this nudges the
// breaker by executing a no-op that always succeeds.
func (b *GobreakerBreaker) Success() {
	_, _ = b.cb.Execute(func() (interface{}, error) { return nil, nil })
}

// Failure reports a failed call the same way Success reports a succeeding
// one.
func (b *GobreakerBreaker) Failure() {
	_, _ = b.cb.Execute(func() (interface{}, error) { return nil, errors.New("reliability: reported failure") })
}
