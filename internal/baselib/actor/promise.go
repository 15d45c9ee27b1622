package actor

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// promise is the concrete implementation of both the Promise and Future
// interfaces. The producer completes the promise exactly once; consumers
// await the result through the Future view. The zero value is not usable,
// promises must be created via NewPromise.
type promise[T any] struct {
	// done is closed once the result has been set.
	done chan struct{}

	// once guards the single completion of the promise.
	once sync.Once

	// result holds the outcome. It is written exactly once, before done
	// is closed, which establishes the happens-before edge for readers.
	result fn.Result[T]
}

// NewPromise creates a new unfulfilled promise.
func NewPromise[T any]() Promise[T] {
	return &promise[T]{
		done: make(chan struct{}),
	}
}

// Complete attempts to set the result of the future. It returns true if this
// call was the first to complete the promise, false otherwise.
func (p *promise[T]) Complete(result fn.Result[T]) bool {
	completed := false
	p.once.Do(func() {
		p.result = result
		close(p.done)
		completed = true
	})

	return completed
}

// Future returns the Future view of this promise.
func (p *promise[T]) Future() Future[T] {
	return p
}

// Await blocks until the result is available or the context is cancelled.
func (p *promise[T]) Await(ctx context.Context) fn.Result[T] {
	select {
	case <-p.done:
		return p.result

	case <-ctx.Done():
		return fn.Err[T](ctx.Err())
	}
}

// ThenApply registers a function to transform the result of the future. The
// original future is not modified; a new future carrying the transformed
// result is returned.
func (p *promise[T]) ThenApply(ctx context.Context,
	transform func(T) T,
) Future[T] {
	next := NewPromise[T]()

	go func() {
		result := p.Await(ctx)

		value, err := result.Unpack()
		if err != nil {
			next.Complete(fn.Err[T](err))
			return
		}

		next.Complete(fn.Ok(transform(value)))
	}()

	return next.Future()
}

// OnComplete registers a function to be called once the result is ready. If
// the context is cancelled first, the callback is invoked with the context's
// error.
func (p *promise[T]) OnComplete(ctx context.Context,
	callback func(fn.Result[T]),
) {
	go func() {
		callback(p.Await(ctx))
	}()
}
