package usage

import (
	"context"
	"testing"
	"time"
)

func TestSummarizeCountsByProvider(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	now := time.Now().UTC()

	svc.Record(ctx, Call{Provider: "gpt", Purpose: "gpt_basic", RequestedAt: now})
	svc.Record(ctx, Call{Provider: "gpt", Purpose: "gpt_market", RequestedAt: now})
	svc.Record(ctx, Call{Provider: "perplexity", Purpose: "perplexity", RequestedAt: now})
	// Outside the window.
	svc.Record(ctx, Call{Provider: "gpt", Purpose: "gpt_basic", RequestedAt: now.AddDate(0, 0, -40)})

	summary, err := svc.Summarize(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("expected total 3, got %d", summary.Total)
	}
	if summary.ByProvider["gpt"] != 2 || summary.ByProvider["perplexity"] != 1 {
		t.Fatalf("unexpected provider counts: %v", summary.ByProvider)
	}
}

func TestRecordDefaultsRequestedAt(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	svc.Record(ctx, Call{Provider: "gpt", Purpose: "gpt_basic"})

	summary, err := svc.Summarize(ctx, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Total != 1 {
		t.Fatalf("call with zero RequestedAt should count as now, got total %d", summary.Total)
	}
}
