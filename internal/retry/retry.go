// Package retry wraps I/O calls in a bounded retry loop with exponential
// backoff and a per-attempt timeout.
package retry

import (
	"context"
	"errors"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Policy controls how often and how patiently a call is retried.
type Policy struct {
	Attempts   int           // total attempts, including the first
	BaseDelay  time.Duration // wait before the second attempt
	Multiplier float64       // growth factor applied to each subsequent wait
	Timeout    time.Duration // per-attempt deadline; zero means none
}

// Default is the policy used for filtered upstream calls:
// 3 attempts, waits of 500ms then 1s, 20s per attempt.
var Default = Policy{
	Attempts:   3,
	BaseDelay:  500 * time.Millisecond,
	Multiplier: 2,
	Timeout:    20 * time.Second,
}

// WithTimeout returns a copy of p with a different per-attempt timeout.
func (p Policy) WithTimeout(d time.Duration) Policy {
	p.Timeout = d
	return p
}

// Delays returns the waits p inserts between attempts, in order.
func (p Policy) Delays() []time.Duration {
	b := p.backoff()
	var out []time.Duration
	for {
		d, stop := b.Next()
		if stop {
			return out
		}
		out = append(out, d)
	}
}

func (p Policy) backoff() goretry.Backoff {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	next := p.BaseDelay
	grow := goretry.BackoffFunc(func() (time.Duration, bool) {
		d := next
		next = time.Duration(float64(next) * mult)
		return d, false
	})
	return goretry.WithMaxRetries(uint64(attempts-1), grow)
}

// Do calls fn until it succeeds, returns a Permanent error, or the policy's
// attempts are used up. The error of the last attempt is returned.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := goretry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}

		v, err := fn(attemptCtx)
		if err != nil {
			var perm *permanentError
			if errors.As(err, &perm) {
				return perm.err
			}
			return goretry.RetryableError(err)
		}
		out = v
		return nil
	})
	return out, err
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns it unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
