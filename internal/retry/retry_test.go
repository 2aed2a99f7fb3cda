package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutError simulates a network timeout.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o deadline" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), DefaultConfig(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(3), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, timeoutError{}
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := ai.NewPermanentError("unauthorized", 401, nil)

	_, err := Do(context.Background(), fastConfig(5), func(context.Context) (string, error) {
		calls++
		return "", permanent
	})

	assert.Same(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDoNeverRetriesSchemaErrors(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(5), func(context.Context) (string, error) {
		calls++
		return "", &ai.SchemaError{Schema: "plan", Err: errors.New("timeout in field")}
	})

	assert.True(t, ai.IsSchemaError(err))
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	var events []Event

	_, err := DoWithObserver(context.Background(), fastConfig(3), func(e Event) {
		events = append(events, e)
	}, func(context.Context) (string, error) {
		calls++
		return "", ai.NewTransientError("overloaded", 503, 0, nil)
	})

	assert.True(t, ai.IsTransient(err))
	assert.Equal(t, 3, calls)

	var types []EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{
		EventAttemptFailed, EventRetrying,
		EventAttemptFailed, EventRetrying,
		EventAttemptFailed, EventExhausted,
	}, types)
}

func TestDoHonorsContextDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	calls := 0
	_, err := Do(ctx, cfg, func(context.Context) (string, error) {
		calls++
		cancel()
		return "", timeoutError{}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoUsesServerRetryAfter(t *testing.T) {
	var delays []time.Duration
	calls := 0

	_, err := DoWithObserver(context.Background(), fastConfig(2), func(e Event) {
		if e.Type == EventRetrying {
			delays = append(delays, e.Delay)
		}
	}, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", ai.NewTransientError("rate limited", 429, 20*time.Millisecond, nil)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	require.Len(t, delays, 1)
	assert.Equal(t, 20*time.Millisecond, delays[0])
}

func TestConfigDelay(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, cfg.Delay(0))
	assert.Equal(t, 2*time.Second, cfg.Delay(1))
	assert.Equal(t, 4*time.Second, cfg.Delay(2))
	assert.Equal(t, 5*time.Second, cfg.Delay(3))
	assert.Equal(t, time.Second, cfg.Delay(-1))

	jittered := Config{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2, Jitter: 0.1}
	for i := 0; i < 20; i++ {
		d := jittered.Delay(0)
		assert.GreaterOrEqual(t, d, 900*time.Millisecond)
		assert.LessOrEqual(t, d, 1100*time.Millisecond)
	}
}

func TestConfigWithAttempts(t *testing.T) {
	assert.Equal(t, 5, DefaultConfig().WithAttempts(5).MaxAttempts)
	assert.Equal(t, 1, DefaultConfig().WithAttempts(0).MaxAttempts)
	assert.Equal(t, 1, Disabled().MaxAttempts)
}

type statusErr int

func (s statusErr) Error() string   { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"categorized transient", ai.NewTransientError("x", 500, 0, nil), true},
		{"categorized permanent", ai.NewPermanentError("x", 401, nil), false},
		{"schema error", &ai.SchemaError{Err: errors.New("rate limit")}, false},
		{"context cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
		{"status 429", statusErr(429), true},
		{"status 400", statusErr(400), false},
		{"net timeout", timeoutError{}, true},
		{"connection reset", fmt.Errorf("dial: %w", syscall.ECONNRESET), true},
		{"message pattern", errors.New("Service Unavailable"), true},
		{"plain error", errors.New("bad things"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}
