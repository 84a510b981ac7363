package provider

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/transcribe/errors"
	"github.com/kbukum/transcribe/resilience"
)

// ResilienceConfig bundles optional resilience policies. Nil or disabled
// fields are skipped; an empty config is a passthrough.
type ResilienceConfig struct {
	CircuitBreaker *resilience.CircuitBreakerConfig
	Retry          *resilience.RetryConfig
	RateLimiter    *resilience.RateLimiterConfig
}

// ResilienceState holds the primitives built from a ResilienceConfig.
// One state is shared by every operation of a client so that the breaker
// and the limiter see all traffic to the endpoint.
type ResilienceState struct {
	cb       *resilience.CircuitBreaker
	rl       *resilience.RateLimiter
	retryCfg *resilience.RetryConfig
}

// BuildResilience creates the primitives for cfg. It returns nil when no
// policy is enabled.
func BuildResilience(cfg ResilienceConfig) *ResilienceState {
	s := &ResilienceState{}
	if cfg.CircuitBreaker != nil && cfg.CircuitBreaker.Enabled() {
		s.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimiter != nil && cfg.RateLimiter.Enabled() {
		s.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	if cfg.Retry != nil && cfg.Retry.Enabled() {
		retryCfg := *cfg.Retry
		s.retryCfg = &retryCfg
	}
	if s.cb == nil && s.rl == nil && s.retryCfg == nil {
		return nil
	}
	return s
}

// WithoutRetry returns a state sharing the breaker and limiter but never
// retrying, for operations that are not idempotent.
func (s *ResilienceState) WithoutRetry() *ResilienceState {
	if s == nil || (s.cb == nil && s.rl == nil) {
		return nil
	}
	return &ResilienceState{cb: s.cb, rl: s.rl}
}

// CircuitState reports the breaker state, or false when no breaker is installed.
func (s *ResilienceState) CircuitState() (resilience.State, bool) {
	if s == nil || s.cb == nil {
		return resilience.StateClosed, false
	}
	return s.cb.State(), true
}

// RetryEnabled reports whether calls through s are retried.
func (s *ResilienceState) RetryEnabled() bool {
	return s != nil && s.retryCfg != nil
}

// WithResilience runs each Execute call through s. A nil state returns the
// provider unchanged.
func WithResilience[I, O any](s *ResilienceState) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if s == nil {
			return inner
		}
		return &resilientRR[I, O]{inner: inner, state: s}
	}
}

type resilientRR[I, O any] struct {
	inner RequestResponse[I, O]
	state *ResilienceState
}

func (r *resilientRR[I, O]) Name() string { return r.inner.Name() }

// IsAvailable is false while the breaker is open.
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool {
	if st, ok := r.state.CircuitState(); ok && st == resilience.StateOpen {
		return false
	}
	return r.inner.IsAvailable(ctx)
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return ExecuteWithResilience(ctx, r.state, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
}

// ExecuteWithResilience runs fn through Retry -> RateLimiter -> CircuitBreaker.
// Every attempt waits for a token and passes the breaker. Resilience errors
// are returned as AppErrors.
func ExecuteWithResilience[T any](ctx context.Context, s *ResilienceState, fn func() (T, error)) (T, error) {
	if s == nil {
		return fn()
	}

	attempt := func() (T, error) {
		var zero T
		if s.rl != nil {
			if err := s.rl.Wait(ctx); err != nil {
				return zero, WrapResilienceError(err)
			}
		}
		if s.cb == nil {
			return fn()
		}

		var result T
		var resultErr error
		cbErr := s.cb.Execute(func() error {
			result, resultErr = fn()
			return resultErr
		})
		if cbErr != nil && resultErr == nil {
			return zero, WrapResilienceError(cbErr)
		}
		return result, resultErr
	}

	if s.retryCfg == nil {
		return attempt()
	}
	return resilience.Retry(ctx, *s.retryCfg, attempt)
}

// WrapResilienceError converts resilience sentinel and context errors to
// AppErrors. AppErrors and unrelated errors are returned unchanged.
func WrapResilienceError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}

	switch {
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		appErr := errors.ServiceUnavailable("circuit breaker is open; the endpoint has been failing").WithCause(err)
		appErr.Retryable = false
		return appErr
	case stderrors.Is(err, resilience.ErrBulkheadFull), stderrors.Is(err, resilience.ErrBulkheadTimeout):
		return errors.ServiceUnavailable("too many requests in flight").
			WithCause(err).
			WithDetail("reason", "concurrency limit reached")
	case stderrors.Is(err, context.Canceled):
		return errors.Timeout("request canceled").WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout("deadline exceeded").WithCause(err)
	default:
		return err
	}
}
