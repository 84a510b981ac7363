package transcribe

import (
	"context"
	"sync"

	"github.com/kbukum/transcribe/provider"
)

// Future is the pending result of an async call. It resolves exactly once;
// each OnComplete callback runs at most once.
type Future[T any] struct {
	once sync.Once
	done chan struct{}

	mu        sync.Mutex
	value     T
	err       error
	callbacks []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func resolvedFuture[T any](value T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(value, err)
	return f
}

func (f *Future[T]) resolve(value T, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.value, f.err = value, err
		callbacks := f.callbacks
		f.callbacks = nil
		close(f.done)
		f.mu.Unlock()

		for _, cb := range callbacks {
			cb(value, err)
		}
	})
}

// Done is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx is done. Giving up on the
// wait does not cancel the call; cancel the ctx passed to the Async method
// for that.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, provider.WrapResilienceError(ctx.Err())
	}
}

// Result returns the outcome without blocking; ok is false while pending.
func (f *Future[T]) Result() (T, bool, error) {
	select {
	case <-f.done:
		return f.value, true, f.err
	default:
		var zero T
		return zero, false, nil
	}
}

// OnComplete registers fn to run with the outcome. If the future has
// already resolved, fn runs immediately on the calling goroutine;
// otherwise it runs on the goroutine that resolves it.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		fn(f.value, f.err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}

// runAsync validates on the calling goroutine, takes an in-flight slot and
// dispatches call. Validation failures and rejected slots resolve the
// future before returning, without starting a goroutine.
func runAsync[T any](ctx context.Context, c *Client, validate func() error, call func(context.Context) (T, error)) *Future[T] {
	var zero T
	if err := validate(); err != nil {
		return resolvedFuture(zero, err)
	}
	if c.bulkhead != nil {
		if err := c.bulkhead.Acquire(ctx); err != nil {
			return resolvedFuture(zero, provider.WrapResilienceError(err))
		}
	}

	f := newFuture[T]()
	go func() {
		if c.bulkhead != nil {
			defer c.bulkhead.Release()
		}
		if c.metrics != nil {
			c.metrics.AddInFlight(ctx, 1)
			defer c.metrics.AddInFlight(ctx, -1)
		}
		f.resolve(call(ctx))
	}()
	return f
}

// StartTranscriptionJobAsync is the non-blocking form of StartTranscriptionJob.
func (c *Client) StartTranscriptionJobAsync(ctx context.Context, req *StartTranscriptionJobRequest) *Future[*Job] {
	return runAsync(ctx, c, req.Validate, func(ctx context.Context) (*Job, error) {
		return c.start.Execute(ctx, req)
	})
}

// GetTranscriptionJobAsync is the non-blocking form of GetTranscriptionJob.
func (c *Client) GetTranscriptionJobAsync(ctx context.Context, name string) *Future[*Job] {
	req := &GetTranscriptionJobRequest{JobName: name}
	return runAsync(ctx, c, req.Validate, func(ctx context.Context) (*Job, error) {
		return c.get.Execute(ctx, req)
	})
}

// ListTranscriptionJobsAsync is the non-blocking form of ListTranscriptionJobs.
func (c *Client) ListTranscriptionJobsAsync(ctx context.Context, req *ListTranscriptionJobsRequest) *Future[*ListTranscriptionJobsResponse] {
	return runAsync(ctx, c, req.Validate, func(ctx context.Context) (*ListTranscriptionJobsResponse, error) {
		return c.list.Execute(ctx, req)
	})
}
