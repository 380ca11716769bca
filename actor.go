package cache

import (
	"context"

	"go.uber.org/zap"
)

// envelope pairs a Request with the channel its single reply is delivered
// on. reply is always buffered by one slot so the actor never blocks
// handing back a response a cancelled caller has already stopped listening
// for.
type envelope struct {
	req   Request
	reply chan result
}

type result struct {
	resp Response
	err  error
}

// Handle is the cheaply-clonable front door to a running actor: copying it
// only copies the channel reference, so every producer goroutine can hold
// its own Handle to the same underlying actor.
type Handle struct {
	requests chan<- envelope
}

// Request sends req to the actor and waits for its reply, racing the wait
// against ctx's cancellation the same way the actor itself races a receive
// against shutdown. If ctx is cancelled first, the reply — if the actor
// answers it later — is simply dropped on the buffered channel; Request
// returns ctx.Err() immediately rather than waiting for it.
func (h Handle) Request(ctx context.Context, req Request) (Response, error) {
	env := envelope{req: req, reply: make(chan result, 1)}
	select {
	case h.requests <- env:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-env.reply:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Actor owns a Cache and serves Handle.Request calls one at a time from a
// single goroutine, which is what makes Cache's unsynchronized store safe:
// every mutation and every read happens on this one goroutine, in the order
// requests arrive.
type Actor struct {
	cache    *Cache
	requests chan envelope
	log      *zap.Logger
}

// NewActor creates an actor around cache with the given request queue
// depth. A queue depth of 0 makes every Handle.Request block until the
// actor goroutine is ready to receive it.
func NewActor(cache *Cache, queueDepth int, log *zap.Logger) *Actor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Actor{
		cache:    cache,
		requests: make(chan envelope, queueDepth),
		log:      log,
	}
}

// Handle returns a Handle bound to a's request queue.
func (a *Actor) Handle() Handle {
	return Handle{requests: a.requests}
}

// Run drives the actor loop until ctx is cancelled. It is meant to be
// called from its own goroutine; Run returns once ctx.Done() fires and
// serves no further requests. Handle.Request does not detect that Run has
// returned: a request sent afterwards still enters the queue while it has
// room, and its caller waits until the caller's own ctx is done, then gets
// ctx.Err().
func (a *Actor) Run(ctx context.Context) {
	for {
		a.cache.Metrics.QueueDepth.Store(int64(len(a.requests)))
		select {
		case <-ctx.Done():
			a.log.Info("actor shutting down", zap.Error(ctx.Err()))
			return
		case env := <-a.requests:
			a.serve(ctx, env)
		}
	}
}

// serve dispatches one request and sends its reply. A panicking handler is
// deliberately not recovered here: spec.md §7 requires a handler panic to
// terminate the actor goroutine outright, so whatever spawned Run must
// supervise it (restart, alert, or let the process die) rather than this
// loop papering over a corrupted Cache.
func (a *Actor) serve(ctx context.Context, env envelope) {
	resp, err := a.cache.request(ctx, env.req)
	if err != nil {
		a.log.Debug("request failed", zap.Error(err))
	}
	env.reply <- result{resp: resp, err: err}
}
