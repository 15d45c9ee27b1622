// Package actorutil provides utility functions for working with the actor
// system from baselib/actor.
package actorutil

import (
	"context"
	"fmt"

	"github.com/roasbeef/revue/internal/baselib/actor"
)

// AskAwait is a convenience function that sends an Ask message to an actor
// and blocks until the response is available. It unpacks the Result and
// returns the response or error directly.
func AskAwait[M actor.Message, R any](
	ctx context.Context,
	ref actor.ActorRef[M, R],
	msg M,
) (R, error) {

	future := ref.Ask(ctx, msg)
	result := future.Await(ctx)
	return result.Unpack()
}

// AskAwaitTyped is like AskAwait but with an additional type assertion on the
// response. This is useful when the actor response is a union type and you
// need a specific concrete type.
func AskAwaitTyped[M actor.Message, R any, T any](
	ctx context.Context,
	ref actor.ActorRef[M, R],
	msg M,
) (T, error) {

	resp, err := AskAwait(ctx, ref, msg)
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := any(resp).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf(
			"unexpected response type: got %T, want %T",
			resp, zero,
		)
	}

	return typed, nil
}
