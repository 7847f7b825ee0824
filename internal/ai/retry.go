package ai

import (
	"context"
	"errors"
	"time"

	"matching-backend/internal/shared/telemetry"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Invoker wraps a Client with bounded retry and exponential backoff.
// Waits between attempts follow base, 2*base, 4*base…; there is no wait
// after the final attempt and no jitter.
type Invoker struct {
	Base        Client
	MaxAttempts int
	BaseDelay   time.Duration

	// sleep is injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewInvoker constructs an Invoker with the fixed default retry budget.
func NewInvoker(base Client) *Invoker {
	return &Invoker{
		Base:        base,
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		sleep:       sleepCtx,
	}
}

// Provider reports the wrapped client's provider key.
func (i *Invoker) Provider() string {
	return i.Base.Provider()
}

// Complete executes the call, retrying transient failures. After exhausting
// the budget the last error is returned to the caller.
func (i *Invoker) Complete(ctx context.Context, req ChatRequest) (ChatResult, error) {
	attempts := i.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	base := i.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	sleep := i.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	delay := base
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := i.Base.Complete(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !shouldRetry(err) {
			return ChatResult{}, err
		}
		if attempt == attempts {
			break
		}
		telemetry.Warn("ai.retry", map[string]any{
			"provider": i.Base.Provider(),
			"attempt":  attempt,
			"delay_ms": delay.Milliseconds(),
			"error":    err.Error(),
		})
		if err := sleep(ctx, delay); err != nil {
			return ChatResult{}, err
		}
		delay *= 2
	}
	return ChatResult{}, lastErr
}

// shouldRetry treats every thrown error as transient except configuration
// failures, which retrying cannot fix.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingAPIKey) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Client = (*Invoker)(nil)
