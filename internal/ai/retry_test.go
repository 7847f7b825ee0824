package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedClient struct {
	calls   int
	results []error
	resp    ChatResult
}

func (s *scriptedClient) Complete(ctx context.Context, req ChatRequest) (ChatResult, error) {
	_ = ctx
	_ = req
	idx := s.calls
	s.calls++
	if idx < len(s.results) && s.results[idx] != nil {
		return ChatResult{}, s.results[idx]
	}
	return s.resp, nil
}

func (s *scriptedClient) Provider() string { return "test" }

func newTestInvoker(base Client, recorded *[]time.Duration) *Invoker {
	inv := NewInvoker(base)
	inv.BaseDelay = 100 * time.Millisecond
	inv.sleep = func(ctx context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
	return inv
}

func TestCompleteRetriesExactlyThreeAttempts(t *testing.T) {
	transient := errors.New("http status 503")
	base := &scriptedClient{results: []error{transient, transient, transient, transient}}
	var waits []time.Duration
	inv := newTestInvoker(base, &waits)

	_, err := inv.Complete(context.Background(), ChatRequest{UserPrompt: "hi"})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if !errors.Is(err, transient) {
		t.Fatalf("expected last error to propagate, got %v", err)
	}
	if base.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", base.calls)
	}
	if len(waits) != 2 {
		t.Fatalf("expected 2 waits, got %d", len(waits))
	}
	if waits[0] != 100*time.Millisecond || waits[1] != 200*time.Millisecond {
		t.Fatalf("expected waits base, 2*base; got %v", waits)
	}
}

func TestCompleteSucceedsOnSecondAttempt(t *testing.T) {
	base := &scriptedClient{
		results: []error{errors.New("connection reset")},
		resp:    ChatResult{Content: "ok"},
	}
	var waits []time.Duration
	inv := newTestInvoker(base, &waits)

	result, err := inv.Complete(context.Background(), ChatRequest{UserPrompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "ok" {
		t.Fatalf("unexpected content %q", result.Content)
	}
	if base.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", base.calls)
	}
	if len(waits) != 1 || waits[0] != 100*time.Millisecond {
		t.Fatalf("expected one wait of base delay, got %v", waits)
	}
}

func TestCompleteDoesNotRetryMissingAPIKey(t *testing.T) {
	base := &scriptedClient{results: []error{ErrMissingAPIKey, ErrMissingAPIKey}}
	var waits []time.Duration
	inv := newTestInvoker(base, &waits)

	_, err := inv.Complete(context.Background(), ChatRequest{UserPrompt: "hi"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("configuration failures must not be retried, got %d attempts", base.calls)
	}
	if len(waits) != 0 {
		t.Fatalf("expected no waits, got %v", waits)
	}
}

func TestCompleteStatusCodeOf(t *testing.T) {
	err := &StatusError{Provider: "perplexity", StatusCode: 429, Body: "rate limited"}
	if StatusCodeOf(err) != 429 {
		t.Fatalf("expected 429, got %d", StatusCodeOf(err))
	}
	if StatusCodeOf(errors.New("plain")) != 0 {
		t.Fatalf("expected 0 for non-status error")
	}
}
