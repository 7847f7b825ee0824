package matching

import (
	"context"
	"strings"
	"testing"

	"matching-backend/internal/ai"
	"matching-backend/internal/companies"
	"matching-backend/internal/prompts"
)

type scriptedAI struct {
	provider string
	results  []ai.ChatResult
	errs     []error
	calls    []ai.ChatRequest
}

func (f *scriptedAI) Complete(ctx context.Context, req ai.ChatRequest) (ai.ChatResult, error) {
	f.calls = append(f.calls, req)
	idx := len(f.calls) - 1
	var result ai.ChatResult
	if idx < len(f.results) {
		result = f.results[idx]
	}
	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	return result, err
}

func (f *scriptedAI) Provider() string { return f.provider }

func setupService(t *testing.T, gpt, research ai.Client) (*Service, *MemoryRepo, int64) {
	t.Helper()
	repo := NewMemoryRepo()
	companyRepo := companies.NewMemoryRepo()
	company, err := companyRepo.Create(context.Background(), companies.Company{
		Name:     "Hansol Foods",
		Industry: "food manufacturing",
	})
	if err != nil {
		t.Fatalf("create company: %v", err)
	}

	svc := &Service{
		Repo:            repo,
		Companies:       companyRepo,
		Prompts:         &prompts.Resolver{Repo: prompts.NewMemoryRepo()},
		GPT:             gpt,
		Research:        research,
		DefaultLanguage: "ko",
	}

	created, err := svc.Submit(context.Background(), MatchingRequest{
		CompanyID:          company.ID,
		TargetCountries:    []string{"Vietnam", "Japan"},
		CompanyDescription: "instant noodle maker",
		ProductInfo:        "spicy ramen",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return svc, repo, created.ID
}

func TestSubmitStartsPendingWithoutAnalysis(t *testing.T) {
	_, repo, id := setupService(t, &scriptedAI{provider: "gpt"}, &scriptedAI{provider: "perplexity"})

	req, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if req.WorkflowStatus != WorkflowPending || req.Status != StatusPending {
		t.Fatalf("expected pending/pending, got %s/%s", req.WorkflowStatus, req.Status)
	}
	if req.AIAnalysis != nil || req.MarketResearch != nil {
		t.Fatalf("expected empty analysis fields, got %#v / %#v", req.AIAnalysis, req.MarketResearch)
	}
}

func TestSubmitRequiresTargetCountries(t *testing.T) {
	svc, _, _ := setupService(t, &scriptedAI{provider: "gpt"}, &scriptedAI{provider: "perplexity"})

	_, err := svc.Submit(context.Background(), MatchingRequest{
		CompanyID:       1,
		TargetCountries: []string{"  ", ""},
	})
	if err != ErrNoTargetCountries {
		t.Fatalf("expected ErrNoTargetCountries, got %v", err)
	}
}

func TestGPTAnalysisSuccess(t *testing.T) {
	gpt := &scriptedAI{
		provider: "gpt",
		results: []ai.ChatResult{
			{Content: `{"company_strengths": ["export ready"]}`, Model: "gpt-4o"},
			{Content: `{"market_overview": "growing"}`, Model: "gpt-4o"},
		},
	}
	svc, repo, id := setupService(t, gpt, &scriptedAI{provider: "perplexity"})

	language, err := svc.RunGPTAnalysis(context.Background(), id, "", "en")
	if err != nil {
		t.Fatalf("RunGPTAnalysis: %v", err)
	}
	if language != "en" {
		t.Fatalf("expected language en, got %q", language)
	}
	if len(gpt.calls) != 2 {
		t.Fatalf("expected two gpt calls, got %d", len(gpt.calls))
	}
	if !gpt.calls[0].StructuredJSON || !gpt.calls[1].StructuredJSON {
		t.Fatal("gpt calls must request structured json")
	}

	req, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if req.WorkflowStatus != WorkflowGPTCompleted {
		t.Fatalf("expected gpt_completed, got %s", req.WorkflowStatus)
	}
	if req.AIAnalysis == nil {
		t.Fatal("expected ai_analysis populated")
	}
	env, ok := req.MarketResearch[ProviderGPT].(map[string]any)
	if !ok {
		t.Fatalf("expected market_research.gpt envelope, got %#v", req.MarketResearch)
	}
	if env["status"] != EnvelopeCompleted || env["provider"] != ProviderGPT {
		t.Fatalf("unexpected envelope %#v", env)
	}
}

func TestGPTAnalysisHardFailure(t *testing.T) {
	gpt := &scriptedAI{
		provider: "gpt",
		errs:     []error{&ai.StatusError{Provider: "gpt", StatusCode: 500, Body: "boom"}},
	}
	svc, repo, id := setupService(t, gpt, &scriptedAI{provider: "perplexity"})

	if _, err := svc.RunGPTAnalysis(context.Background(), id, "", ""); err == nil {
		t.Fatal("expected error after hard failure")
	}

	req, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if req.WorkflowStatus != WorkflowGPTFailed {
		t.Fatalf("expected gpt_failed, got %s", req.WorkflowStatus)
	}
	if req.ErrorDetails["type"] != "gpt_analysis" {
		t.Fatalf("expected error_details.type=gpt_analysis, got %#v", req.ErrorDetails)
	}
	if req.ErrorDetails["message"] == "" || req.ErrorDetails["timestamp"] == "" {
		t.Fatalf("expected message and timestamp, got %#v", req.ErrorDetails)
	}
}

func TestResearchSoftFailureStillCompletes(t *testing.T) {
	research := &scriptedAI{
		provider: "perplexity",
		errs:     []error{&ai.StatusError{Provider: "perplexity", StatusCode: 429, Body: "rate limited"}},
	}
	svc, repo, id := setupService(t, &scriptedAI{provider: "gpt"}, research)

	if err := svc.RunMarketResearch(context.Background(), id, ""); err != nil {
		t.Fatalf("soft failure must not surface as an error: %v", err)
	}

	req, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if req.WorkflowStatus != WorkflowPerplexityCompleted {
		t.Fatalf("expected perplexity_completed, got %s", req.WorkflowStatus)
	}
	env, ok := req.MarketResearch[ProviderPerplexity].(map[string]any)
	if !ok {
		t.Fatalf("expected perplexity envelope, got %#v", req.MarketResearch)
	}
	if env["status"] != EnvelopeFailed {
		t.Fatalf("expected failed envelope, got %#v", env)
	}
	if env["error_type"] != "http_error" {
		t.Fatalf("expected error_type=http_error, got %#v", env)
	}
	if got, ok := env["status_code"].(float64); !ok || got != 429 {
		t.Fatalf("expected status_code=429, got %#v", env["status_code"])
	}
}

func TestResearchMergePreservesOtherProviderAndAnalysis(t *testing.T) {
	gpt := &scriptedAI{
		provider: "gpt",
		results: []ai.ChatResult{
			{Content: `{"company_strengths": ["export ready"]}`},
			{Content: `{"market_overview": "growing"}`},
		},
	}
	research := &scriptedAI{
		provider: "perplexity",
		results: []ai.ChatResult{
			{Content: `{"market_overview": "cited overview"}`, Citations: []string{"https://example.com/report"}},
		},
	}
	svc, repo, id := setupService(t, gpt, research)

	if _, err := svc.RunGPTAnalysis(context.Background(), id, "", ""); err != nil {
		t.Fatalf("RunGPTAnalysis: %v", err)
	}
	before, _ := repo.GetByID(context.Background(), id)

	if err := svc.RunMarketResearch(context.Background(), id, ""); err != nil {
		t.Fatalf("RunMarketResearch: %v", err)
	}

	after, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if _, ok := after.MarketResearch[ProviderGPT]; !ok {
		t.Fatal("research merge must not clobber the gpt provider key")
	}
	env, ok := after.MarketResearch[ProviderPerplexity].(map[string]any)
	if !ok {
		t.Fatalf("expected perplexity envelope, got %#v", after.MarketResearch)
	}
	citations, ok := env["citations"].([]any)
	if !ok || len(citations) != 1 {
		t.Fatalf("expected one citation, got %#v", env["citations"])
	}
	if len(after.AIAnalysis) != len(before.AIAnalysis) {
		t.Fatalf("ai_analysis changed: before %#v after %#v", before.AIAnalysis, after.AIAnalysis)
	}
}

func TestAdminPromptAppearsVerbatimInRenderedPrompt(t *testing.T) {
	research := &scriptedAI{
		provider: "perplexity",
		results:  []ai.ChatResult{{Content: `{"market_overview": "x"}`}},
	}
	svc, _, id := setupService(t, &scriptedAI{provider: "gpt"}, research)

	const instruction = "Focus on halal certification requirements."
	if err := svc.RunMarketResearch(context.Background(), id, instruction); err != nil {
		t.Fatalf("RunMarketResearch: %v", err)
	}
	if len(research.calls) != 1 {
		t.Fatalf("expected one research call, got %d", len(research.calls))
	}
	if !strings.Contains(research.calls[0].UserPrompt, instruction) {
		t.Fatalf("admin instruction missing from rendered prompt: %q", research.calls[0].UserPrompt)
	}
}

func TestApproveFreezesFinalReport(t *testing.T) {
	gpt := &scriptedAI{
		provider: "gpt",
		results: []ai.ChatResult{
			{Content: `{"company_strengths": ["export ready"]}`},
			{Content: `{"market_overview": "growing"}`},
		},
	}
	research := &scriptedAI{
		provider: "perplexity",
		results: []ai.ChatResult{
			{Content: `{"market_overview": "first run"}`},
			{Content: `{"market_overview": "second run"}`},
		},
	}
	svc, repo, id := setupService(t, gpt, research)

	if _, err := svc.RunGPTAnalysis(context.Background(), id, "", ""); err != nil {
		t.Fatalf("RunGPTAnalysis: %v", err)
	}
	if err := svc.RunMarketResearch(context.Background(), id, ""); err != nil {
		t.Fatalf("RunMarketResearch: %v", err)
	}

	approved, err := svc.Approve(context.Background(), id, "looks good")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.WorkflowStatus != WorkflowFinalized || approved.Status != StatusCompleted {
		t.Fatalf("expected finalized/completed, got %s/%s", approved.WorkflowStatus, approved.Status)
	}
	if approved.FinalReport["admin_comments"] != "looks good" {
		t.Fatalf("expected comments in final report, got %#v", approved.FinalReport)
	}

	// A later re-run must not mutate the frozen snapshot.
	if err := svc.RunMarketResearch(context.Background(), id, ""); err != nil {
		t.Fatalf("re-run after approval: %v", err)
	}
	after, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	reportResearch, ok := after.FinalReport["market_research"].(map[string]any)
	if !ok {
		t.Fatalf("expected frozen market_research, got %#v", after.FinalReport)
	}
	frozenEnv := reportResearch[ProviderPerplexity].(map[string]any)
	frozenData := frozenEnv["data"].(map[string]any)
	if frozenData["market_overview"] != "first run" {
		t.Fatalf("final report was mutated by a later re-run: %#v", frozenData)
	}

	if _, err := svc.Approve(context.Background(), id, "again"); err != ErrAlreadyFinalized {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
}

func TestRejectRevertsCoarseStatus(t *testing.T) {
	svc, repo, id := setupService(t, &scriptedAI{provider: "gpt"}, &scriptedAI{provider: "perplexity"})

	updated, err := svc.Reject(context.Background(), id, "insufficient company description")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if updated.WorkflowStatus != WorkflowRejected {
		t.Fatalf("expected rejected, got %s", updated.WorkflowStatus)
	}
	if updated.Status != StatusPending {
		t.Fatalf("expected coarse status pending, got %s", updated.Status)
	}
	if updated.AdminComments != "insufficient company description" {
		t.Fatalf("expected reason recorded, got %q", updated.AdminComments)
	}

	stored, _ := repo.GetByID(context.Background(), id)
	if stored.Status != StatusPending {
		t.Fatalf("expected stored status pending, got %s", stored.Status)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _, id := setupService(t, &scriptedAI{provider: "gpt"}, &scriptedAI{provider: "perplexity"})
	if _, err := svc.Reject(context.Background(), id, "   "); err == nil {
		t.Fatal("expected error for blank reason")
	}
}
