package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	ai "github.com/spetersoncode/openresponses"
	"github.com/stretchr/testify/assert"
)

// mockTransientError simulates a transient network error.
type mockTransientError struct {
	msg string
}

func (e *mockTransientError) Error() string   { return e.msg }
func (e *mockTransientError) Timeout() bool   { return true }
func (e *mockTransientError) Temporary() bool { return true }

var _ net.Error = (*mockTransientError)(nil)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSuccess(t *testing.T) {
	callCount := 0

	result, err := Do(context.Background(), DefaultConfig(), func() (string, error) {
		callCount++
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 1, callCount)
}

func TestDoRetryOnTransientError(t *testing.T) {
	callCount := 0

	result, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", &ai.TransportError{Status: 503}
		}
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 3, callCount)
}

func TestDoNoRetryOnPermanentError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"uncategorized", errors.New("permanent error")},
		{"unauthorized", &ai.TransportError{Status: 401}},
		{"bad request", &ai.TransportError{Status: 400}},
		{"decode", &ai.DecodeError{Field: "id", Msg: "missing required field"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callCount := 0
			_, err := Do(context.Background(), DefaultConfig(), func() (string, error) {
				callCount++
				return "", tt.err
			})

			assert.Equal(t, tt.err, err)
			assert.Equal(t, 1, callCount)
		})
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	callCount := 0
	transientErr := &mockTransientError{msg: "timeout"}

	_, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		callCount++
		return "", transientErr
	})

	assert.Equal(t, transientErr, err)
	assert.Equal(t, 3, callCount)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	cfg := Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     time.Second,
		Multiplier:   1,
	}
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, func() (string, error) {
		callCount++
		return "", &mockTransientError{msg: "timeout"}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
}

func TestDoWithDisabledRetry(t *testing.T) {
	callCount := 0

	_, err := Do(context.Background(), Disabled(), func() (string, error) {
		callCount++
		return "", &ai.TransportError{Status: 503}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, callCount)
}

func TestDoZeroConfigRunsOnce(t *testing.T) {
	callCount := 0

	_, err := Do(context.Background(), Config{}, func() (int, error) {
		callCount++
		return 0, &ai.TransportError{Status: 503}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, callCount)
}

func TestDoHonorsRetryAfterFromError(t *testing.T) {
	cfg := Config{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
	}

	var callTimes []time.Time
	retryErr := &ai.TransportError{Status: 429, RetryDelay: 50 * time.Millisecond}

	_, err := Do(context.Background(), cfg, func() (string, error) {
		callTimes = append(callTimes, time.Now())
		if len(callTimes) < 2 {
			return "", retryErr
		}
		return "success", nil
	})

	assert.NoError(t, err)
	if assert.Len(t, callTimes, 2) {
		assert.GreaterOrEqual(t, callTimes[1].Sub(callTimes[0]), 45*time.Millisecond, "should honor RetryAfter of 50ms")
	}
}

func TestEffectiveDelay(t *testing.T) {
	tests := []struct {
		name            string
		maxDelay        time.Duration
		configuredDelay time.Duration
		retryAfter      time.Duration
		expectedDelay   time.Duration
	}{
		{"RetryAfter larger than configured", 0, 100 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond},
		{"configured larger than RetryAfter", 0, 500 * time.Millisecond, 100 * time.Millisecond, 500 * time.Millisecond},
		{"no RetryAfter", 0, 100 * time.Millisecond, 0, 100 * time.Millisecond},
		{"RetryAfter capped at MaxDelay", 30 * time.Second, time.Second, time.Hour, 30 * time.Second},
		{"RetryAfter under MaxDelay", 30 * time.Second, time.Second, 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{MaxDelay: tt.maxDelay}
			err := &ai.TransportError{Status: 429, RetryDelay: tt.retryAfter}
			assert.Equal(t, tt.expectedDelay, cfg.effectiveDelay(tt.configuredDelay, err))
		})
	}
}

func TestDoCapsRetryAfterAtMaxDelay(t *testing.T) {
	cfg := Config{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
	}

	events := make(chan Event, 16)
	start := time.Now()
	_, err := DoWithEvents(context.Background(), cfg, events, func() (string, error) {
		return "", &ai.TransportError{Status: 429, RetryDelay: time.Hour}
	})
	close(events)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	for e := range events {
		if e.Type == EventRetrying {
			assert.Equal(t, 20*time.Millisecond, e.Delay)
		}
	}
}

func TestDoWithEvents(t *testing.T) {
	events := make(chan Event, 16)
	callCount := 0

	_, err := DoWithEvents(context.Background(), fastConfig(2), events, func() (string, error) {
		callCount++
		return "", &ai.TransportError{Status: 500}
	})
	close(events)

	assert.Error(t, err)

	var types []EventType
	for ev := range events {
		assert.False(t, ev.Timestamp.IsZero())
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{
		EventAttemptStart, EventAttemptFailed, EventRetrying,
		EventAttemptStart, EventAttemptFailed, EventExhausted,
	}, types)
}

func TestDoWithEventsReportsStatus(t *testing.T) {
	events := make(chan Event, 8)

	_, err := DoWithEvents(context.Background(), Disabled(), events, func() (string, error) {
		return "", &ai.TransportError{Status: 429}
	})
	close(events)
	assert.Error(t, err)

	var failed *Event
	for ev := range events {
		if ev.Type == EventAttemptFailed {
			failed = &ev
		}
	}
	if assert.NotNil(t, failed) {
		assert.Equal(t, 429, failed.Status)
		assert.True(t, failed.Retryable)
	}
}

func TestDoUsesRetryableOverride(t *testing.T) {
	cfg := fastConfig(3)
	cfg.Retryable = func(error) bool { return false }

	callCount := 0
	_, err := Do(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", &ai.TransportError{Status: 503}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, callCount)
}
