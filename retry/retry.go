package retry

import (
	"context"
	"time"

	ai "github.com/spetersoncode/openresponses"
)

// effectiveDelay prefers the server's Retry-After hint when it is longer
// than the scheduled backoff. The hint never exceeds MaxDelay.
func (c Config) effectiveDelay(scheduled time.Duration, err error) time.Duration {
	hint := ai.RetryAfterOf(err)
	if c.MaxDelay > 0 {
		hint = min(hint, c.MaxDelay)
	}
	return max(scheduled, hint)
}

// Do calls fn until it succeeds, fails with a non-retryable error, or
// cfg's attempts run out. The last error is returned unchanged. Waiting
// between attempts stops early with ctx.Err() when ctx ends.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	return DoWithEvents(ctx, cfg, nil, fn)
}

// DoWithEvents is Do reporting each step on events. Sends never block;
// a nil channel disables reporting.
func DoWithEvents[T any](ctx context.Context, cfg Config, events chan<- Event, fn func() (T, error)) (T, error) {
	var zero T
	total := cfg.attempts()

	var lastErr error
	for attempt := 1; attempt <= total; attempt++ {
		emit(events, Event{Type: EventAttemptStart, Attempt: attempt, MaxAttempts: total})

		result, err := fn()
		if err == nil {
			emit(events, Event{Type: EventSuccess, Attempt: attempt, MaxAttempts: total})
			return result, nil
		}
		lastErr = err

		retryable := cfg.retryable(err)
		emit(events, Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt,
			MaxAttempts: total,
			Error:       err,
			Status:      ai.StatusCodeOf(err),
			Retryable:   retryable,
		})
		if !retryable {
			return zero, err
		}
		if attempt == total {
			break
		}

		delay := cfg.effectiveDelay(cfg.Delay(attempt-1), err)
		emit(events, Event{Type: EventRetrying, Attempt: attempt, MaxAttempts: total, Delay: delay})
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	emit(events, Event{Type: EventExhausted, Attempt: total, MaxAttempts: total, Error: lastErr})
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
