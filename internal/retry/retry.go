package retry

import (
	"context"
	"time"

	ai "github.com/spetersoncode/blogsmith"
)

// Do executes fn until it succeeds, fails with a non-transient error, or
// runs out of attempts. Backoff waits end early when ctx is cancelled.
func Do[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	return DoWithObserver(ctx, cfg, nil, fn)
}

// DoWithObserver is like Do but reports failed attempts and retries to obs.
func DoWithObserver[T any](ctx context.Context, cfg Config, obs Observer, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	attempts := max(cfg.MaxAttempts, 1)

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		retryable := IsTransient(err)
		obs.notify(Event{
			Type:        EventAttemptFailed,
			Attempt:     attempt + 1,
			MaxAttempts: attempts,
			Error:       err,
			Retryable:   retryable,
		})
		if !retryable {
			return zero, err
		}

		if attempt == attempts-1 {
			break
		}

		// A server-requested delay wins when it is longer than ours.
		delay := max(cfg.Delay(attempt), ai.RetryAfterOf(err))
		obs.notify(Event{
			Type:        EventRetrying,
			Attempt:     attempt + 1,
			MaxAttempts: attempts,
			Delay:       delay,
			Retryable:   true,
		})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	obs.notify(Event{
		Type:        EventExhausted,
		Attempt:     attempts,
		MaxAttempts: attempts,
		Error:       lastErr,
	})
	return zero, lastErr
}
