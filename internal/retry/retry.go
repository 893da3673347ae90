package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrTimeout is wrapped into the error returned when the retry loop exhausts
// its wait budget without reaching a terminal result. Detect it with
// errors.Is. It carries no partial result.
var ErrTimeout = errors.New("timed out waiting for a terminal result")

// Retrier configures retries for an operation.
type Retrier struct {
	// Timeout is the maximum cumulative time for the complete retry loop.
	// If zero, the operation is retried until either the backoff reaches
	// its limit (if configured to do so) or the context is cancelled.
	Timeout time.Duration
	// Backoff is the backoff configuration for the retry loop. A zero
	// Factor means a constant interval between attempts.
	Backoff Backoff
}

type (
	Backoff wait.Backoff
	// Operation is a process that can be retried. It returns a boolean
	// indicating if the operation is done. An error is terminal: it is
	// returned to the caller immediately and never retried.
	Operation func(context.Context) (done bool, err error)
	// Predicate reports whether a result warrants another attempt.
	Predicate[T any] func(T) bool
)

// Do retries an operation until it reports done, the timeout is reached or
// the context is cancelled. Any error from the operation stops the loop and
// is returned as-is: the operations driven here treat remote-reported
// failures as unrecoverable, so masking one as a timeout would be a bug.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	if r.Timeout != 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	backoff := wait.Backoff(r.Backoff)
	if r.Backoff.Steps == 0 {
		// A zero steps limit doesn't make sense, and
		// wait.ExponentialBackoffWithContext expects the field to be
		// set, so zero means "no attempt limit".
		backoff.Steps = math.MaxInt
	}

	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		return op(ctx)
	})

	if wait.Interrupted(err) {
		// Distinguish a cancelled caller from an exhausted budget.
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return ctxErr
		}
		return ErrTimeout
	}

	return err
}

// OnResult retries fn while shouldRetry accepts its result. The first result
// that shouldRetry rejects is returned. An error from fn is terminal and
// propagates immediately with a zero result.
func OnResult[T any](ctx context.Context, retrier *Retrier, fn func(context.Context) (T, error), shouldRetry Predicate[T]) (T, error) {
	var result T
	err := retrier.Do(ctx, func(ctx context.Context) (bool, error) {
		var err error
		result, err = fn(ctx)
		if err != nil {
			return false, err
		}
		return !shouldRetry(result), nil
	})
	return result, err
}

// WhileAbsent retries while the result is nil. Used for discovery-style
// polling where the remote side has not populated the data yet.
func WhileAbsent[T any]() Predicate[*T] {
	return func(v *T) bool { return v == nil }
}

// WhileFalse retries while the result is false. Used for done-flag polling.
func WhileFalse(v bool) bool { return !v }

// RetrierOption is a function that modifies a Retrier.
// Generally only for tests.
type RetrierOption func(*Retrier)

// WithTimeout sets the timeout for the retrier.
func WithTimeout(timeout time.Duration) RetrierOption {
	return func(r *Retrier) {
		r.Timeout = timeout
	}
}

// WithBackoffDuration sets the backoff duration for the retrier.
func WithBackoffDuration(duration time.Duration) RetrierOption {
	return func(r *Retrier) {
		r.Backoff.Duration = duration
	}
}
