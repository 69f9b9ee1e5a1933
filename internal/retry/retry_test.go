package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransport = errors.New("connection reset")

func testPolicy() (Policy, *RecordingTimer) {
	timer := NewRecordingTimer()
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2, Timer: timer}, timer
}

func TestPolicy_FailTwiceThenSucceed(t *testing.T) {
	p, timer := testPolicy()
	var notified []int

	attempts, err := p.Do(context.Background(), func(_ context.Context, attempt int) error {
		if attempt < 3 {
			return errTransport
		}
		return nil
	}, func(attempt int, err error, next time.Duration) {
		notified = append(notified, attempt)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, notified)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.Delays())
}

func TestPolicy_AlwaysFails(t *testing.T) {
	p, timer := testPolicy()
	calls := 0

	attempts, err := p.Do(context.Background(), func(context.Context, int) error {
		calls++
		return errTransport
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
	assert.Len(t, timer.Delays(), 2)

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, 3, rerr.Attempts)
	assert.ErrorIs(t, err, errTransport)
}

func TestPolicy_PermanentStopsImmediately(t *testing.T) {
	p, timer := testPolicy()
	denied := errors.New("status 403")

	attempts, err := p.Do(context.Background(), func(context.Context, int) error {
		return Permanent(denied)
	}, nil)

	assert.Equal(t, 1, attempts)
	assert.Equal(t, denied, err)
	assert.Empty(t, timer.Delays())
}

func TestPolicy_FirstTrySuccess(t *testing.T) {
	p, timer := testPolicy()
	attempts, err := p.Do(context.Background(), func(context.Context, int) error { return nil }, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, timer.Delays())
}

func TestPolicy_ZeroValueUsesDefaults(t *testing.T) {
	timer := NewRecordingTimer()
	p := Policy{Timer: timer}

	attempts, err := p.Do(context.Background(), func(context.Context, int) error { return errTransport }, nil)
	require.Error(t, err)
	assert.Equal(t, DefaultMaxAttempts, attempts)
	assert.Equal(t, []time.Duration{DefaultBaseDelay, 2 * DefaultBaseDelay}, timer.Delays())
}

func TestPolicy_CustomAttemptsAndMultiplier(t *testing.T) {
	timer := NewRecordingTimer()
	p := Policy{MaxAttempts: 4, BaseDelay: 100 * time.Millisecond, Multiplier: 3, Timer: timer}

	attempts, _ := p.Do(context.Background(), func(context.Context, int) error { return errTransport }, nil)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 900 * time.Millisecond}, timer.Delays())
}

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, time.Second, p.BaseDelay)
	assert.Equal(t, 2.0, p.Multiplier)
}
