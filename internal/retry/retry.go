// Package retry runs an operation a bounded number of times with
// exponential backoff between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Defaults used when a Policy field is left zero
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultMultiplier  = 2.0
)

// Operation is one attempt; attempt counts from 1.
type Operation func(ctx context.Context, attempt int) error

// Notify is called after a failed attempt that will be retried.
type Notify func(attempt int, err error, next time.Duration)

// Policy retries sequentially: delays are BaseDelay, BaseDelay*Multiplier, ...
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	// Timer drives the waits; nil uses a real timer.
	Timer backoff.Timer
}

// Default returns the three-attempt, one-second policy
func Default() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay, Multiplier: DefaultMultiplier}
}

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Error reports that every attempt failed
type Error struct {
	Attempts int
	Last     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *Error) Unwrap() error { return e.Last }

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = DefaultMultiplier
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = base
	eb.Multiplier = mult
	eb.RandomizationFactor = 0
	eb.MaxInterval = time.Duration(math.MaxInt64)
	eb.MaxElapsedTime = 0
	eb.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
}

// Do runs op until it succeeds, returns a permanent error, the context ends,
// or MaxAttempts is reached. It returns the number of attempts made. When
// all attempts fail the error is an *Error wrapping the last failure; a
// permanent error is returned unwrapped.
func (p Policy) Do(ctx context.Context, op Operation, notify Notify) (int, error) {
	attempts := 0
	permanent := false
	var last error

	wrapped := func() error {
		attempts++
		err := op(ctx, attempts)
		if err != nil {
			last = err
			var perm *backoff.PermanentError
			permanent = errors.As(err, &perm)
		}
		return err
	}

	var n backoff.Notify
	if notify != nil {
		n = func(err error, next time.Duration) {
			notify(attempts, err, next)
		}
	}

	err := backoff.RetryNotifyWithTimer(wrapped, p.backOff(ctx), n, p.Timer)
	if err == nil {
		return attempts, nil
	}

	if permanent {
		return attempts, err
	}
	return attempts, &Error{Attempts: attempts, Last: last}
}

// RecordingTimer fires immediately and remembers every requested delay.
// It lets callers exercise a Policy without sleeping.
type RecordingTimer struct {
	mu     sync.Mutex
	c      chan time.Time
	delays []time.Duration
}

// NewRecordingTimer returns a ready RecordingTimer
func NewRecordingTimer() *RecordingTimer {
	return &RecordingTimer{c: make(chan time.Time, 1)}
}

func (t *RecordingTimer) Start(d time.Duration) {
	t.mu.Lock()
	t.delays = append(t.delays, d)
	t.mu.Unlock()
	t.c <- time.Now()
}

func (t *RecordingTimer) Stop() {}

func (t *RecordingTimer) C() <-chan time.Time { return t.c }

// Delays returns the waits requested so far
func (t *RecordingTimer) Delays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.delays...)
}
