package actor

import (
	"context"
	"sync/atomic"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// RoutingStrategy selects a target actor from the set of actors currently
// registered under a service key. Implementations must be safe for
// concurrent use, as a single router may be shared across goroutines.
type RoutingStrategy[M Message, R any] interface {
	// Select picks one actor reference from the given non-empty slice.
	Select(refs []ActorRef[M, R]) ActorRef[M, R]
}

// roundRobinStrategy cycles through the registered actors in order. The
// counter is atomic so concurrent senders spread their messages evenly.
type roundRobinStrategy[M Message, R any] struct {
	next atomic.Uint64
}

// NewRoundRobinStrategy creates a routing strategy that distributes messages
// across actors in round-robin order.
func NewRoundRobinStrategy[M Message, R any]() RoutingStrategy[M, R] {
	return &roundRobinStrategy[M, R]{}
}

// Select implements RoutingStrategy.
func (s *roundRobinStrategy[M, R]) Select(
	refs []ActorRef[M, R],
) ActorRef[M, R] {
	idx := s.next.Add(1) - 1

	return refs[idx%uint64(len(refs))]
}

// Router is a virtual ActorRef that forwards messages to the actors
// registered under a service key. Lookups happen per message, so actors
// registered or unregistered after the router is created are picked up
// automatically.
type Router[M Message, R any] struct {
	receptionist *Receptionist
	key          ServiceKey[M, R]
	strategy     RoutingStrategy[M, R]
	dlo          ActorRef[Message, any]
}

// NewRouter creates a router for the given service key using the provided
// strategy. Messages sent while no actor is registered under the key are
// routed to the dead letter office (Tell) or fail the returned future (Ask).
func NewRouter[M Message, R any](receptionist *Receptionist,
	key ServiceKey[M, R], strategy RoutingStrategy[M, R],
	dlo ActorRef[Message, any],
) *Router[M, R] {
	return &Router[M, R]{
		receptionist: receptionist,
		key:          key,
		strategy:     strategy,
		dlo:          dlo,
	}
}

// ID returns the identifier of this virtual reference.
func (r *Router[M, R]) ID() string {
	return "router:" + r.key.name
}

// Tell forwards the message to one of the registered actors. If no actor is
// registered under the key, the message is sent to the dead letter office.
func (r *Router[M, R]) Tell(ctx context.Context, msg M) {
	refs := FindInReceptionist(r.receptionist, r.key)
	if len(refs) == 0 {
		log.DebugS(ctx, "Router found no registered actors",
			"service_key", r.key.name,
			"msg_type", msg.MessageType())

		if r.dlo != nil {
			r.dlo.Tell(ctx, msg)
		}

		return
	}

	r.strategy.Select(refs).Tell(ctx, msg)
}

// Ask forwards the message to one of the registered actors and returns the
// future for its response. If no actor is registered under the key, the
// returned future fails with ErrActorTerminated.
func (r *Router[M, R]) Ask(ctx context.Context, msg M) Future[R] {
	refs := FindInReceptionist(r.receptionist, r.key)
	if len(refs) == 0 {
		log.DebugS(ctx, "Router found no registered actors",
			"service_key", r.key.name,
			"msg_type", msg.MessageType())

		promise := NewPromise[R]()
		promise.Complete(fn.Err[R](ErrActorTerminated))

		return promise.Future()
	}

	return r.strategy.Select(refs).Ask(ctx, msg)
}

// Ensure Router implements ActorRef at compile time.
var _ ActorRef[Message, any] = (*Router[Message, any])(nil)
