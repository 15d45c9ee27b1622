package actor

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// FunctionBehavior adapts a plain function into an ActorBehavior. This is
// convenient for small, stateless actors where defining a dedicated behavior
// type would be overkill.
type FunctionBehavior[M Message, R any] struct {
	handler func(ctx context.Context, msg M) fn.Result[R]
}

// NewFunctionBehavior wraps the given function as an ActorBehavior.
func NewFunctionBehavior[M Message, R any](
	handler func(ctx context.Context, msg M) fn.Result[R],
) *FunctionBehavior[M, R] {
	return &FunctionBehavior[M, R]{
		handler: handler,
	}
}

// Receive implements ActorBehavior by invoking the wrapped function.
func (b *FunctionBehavior[M, R]) Receive(ctx context.Context,
	msg M,
) fn.Result[R] {
	return b.handler(ctx, msg)
}

// Ensure FunctionBehavior implements ActorBehavior at compile time.
var _ ActorBehavior[Message, any] = (*FunctionBehavior[Message, any])(nil)
