package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for the cache-internal error kinds. Use errors.Is against
// these; DriverError additionally wraps the underlying driver cause and is
// unwrapped with errors.Unwrap/errors.As.
var (
	// ErrNotFound is returned when a key is absent from the store and the
	// driver also reports it missing.
	ErrNotFound = errors.New("cache: item not found")

	// ErrProtocol names a request whose reply channel was closed before the
	// actor could answer it. The actor never closes a reply channel, so
	// Handle.Request does not return this error.
	ErrProtocol = errors.New("cache: reply channel closed before actor answered")

	// ErrPredicateFailure names a predicate rejecting an item; it is a
	// flow-control signal, not a bug. No function in this package returns
	// it: Subtree and GetRelationSet take no Predicate.
	ErrPredicateFailure = errors.New("cache: predicate rejected item")

	// ErrInvalidResponse is returned when the actor answers with a
	// different response variant than the request expected. This indicates
	// a library bug: it is asserted against but never recovered from.
	ErrInvalidResponse = errors.New("cache: actor returned the wrong response variant for this request")

	// ErrShutdown names an actor that is shutting down. Handle.Request does
	// not return it: a request to an actor whose Run has returned waits
	// until the caller's ctx is done and returns ctx.Err() (see Actor.Run).
	ErrShutdown = errors.New("cache: actor is shutting down")

	// ErrUnknownEvent is returned by the event dispatcher for an event kind
	// it does not recognize. The actor logs and discards it; it never
	// panics.
	ErrUnknownEvent = errors.New("cache: unrecognized event kind")
)

// DriverErr wraps a transport or marshalling failure reported by a Driver.
// The cache never swallows a driver error: it is returned to the caller
// verbatim, wrapped only to record which operation produced it, and the
// lookup's result is never cached as a negative entry.
type DriverErr struct {
	Op  string
	Key Key
	Err error
}

func (e *DriverErr) Error() string {
	if e.Key.IsZero() {
		return fmt.Sprintf("cache: driver error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache: driver error during %s for %s: %v", e.Op, e.Key, e.Err)
}

func (e *DriverErr) Unwrap() error { return e.Err }

func driverErr(op string, key Key, err error) error {
	if err == nil {
		return nil
	}
	return &DriverErr{Op: op, Key: key, Err: err}
}
