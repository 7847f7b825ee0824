package prompts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestResolvePrefersLatestActiveOverride(t *testing.T) {
	repo := NewMemoryRepo()
	older, err := repo.Create(context.Background(), Template{
		PromptType:         "gpt_basic_analysis",
		SystemPrompt:       "old system",
		UserPromptTemplate: "old user {{company_name}}",
		IsActive:           true,
	})
	if err != nil {
		t.Fatalf("create older: %v", err)
	}
	newer, err := repo.Create(context.Background(), Template{
		PromptType:         "gpt_basic_analysis",
		SystemPrompt:       "new system",
		UserPromptTemplate: "new user {{company_name}}",
		IsActive:           true,
	})
	if err != nil {
		t.Fatalf("create newer: %v", err)
	}
	// Force distinct updated_at ordering.
	repo.mu.Lock()
	olderCopy := repo.byID[older.ID]
	olderCopy.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	repo.byID[older.ID] = olderCopy
	newerCopy := repo.byID[newer.ID]
	newerCopy.UpdatedAt = time.Now().UTC()
	repo.byID[newer.ID] = newerCopy
	repo.mu.Unlock()

	resolver := &Resolver{Repo: repo}
	resolved := resolver.Resolve(context.Background(), PurposeGPTBasic, "en")
	if resolved.Source != "template" {
		t.Fatalf("expected override, got source %q", resolved.Source)
	}
	if resolved.SystemPrompt != "new system" {
		t.Fatalf("expected latest override to win, got %q", resolved.SystemPrompt)
	}
}

func TestResolveIgnoresInactiveOverrides(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.Create(context.Background(), Template{
		PromptType:         "gpt_basic_analysis",
		SystemPrompt:       "disabled",
		UserPromptTemplate: "disabled",
		IsActive:           false,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	resolver := &Resolver{Repo: repo}
	resolved := resolver.Resolve(context.Background(), PurposeGPTBasic, "en")
	if resolved.Source != "default" {
		t.Fatalf("inactive template must not be selected, got source %q", resolved.Source)
	}
}

type failingRepo struct {
	Repo
}

func (failingRepo) LatestActiveByPurpose(ctx context.Context, purpose string) (Template, error) {
	return Template{}, errors.New("connection refused")
}

func TestResolveSwallowsLookupFailure(t *testing.T) {
	resolver := &Resolver{Repo: failingRepo{}}
	resolved := resolver.Resolve(context.Background(), PurposePerplexity, "ko")
	if resolved.Source != "default" {
		t.Fatalf("lookup failure must fall back to default, got %q", resolved.Source)
	}
	if strings.TrimSpace(resolved.UserPromptTemplate) == "" {
		t.Fatalf("default template must not be empty")
	}
}

func TestBuiltinDefaultLocaleFallback(t *testing.T) {
	d := BuiltinDefault(PurposeGPTMarket, "fr")
	ko := BuiltinDefault(PurposeGPTMarket, "ko")
	if d.UserPromptTemplate != ko.UserPromptTemplate {
		t.Fatalf("unknown locale should fall back to ko")
	}
	en := BuiltinDefault(PurposeGPTMarket, "en")
	if !strings.Contains(en.UserPromptTemplate, "{{target_countries}}") {
		t.Fatalf("default template missing target_countries placeholder")
	}
}
