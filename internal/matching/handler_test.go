package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/ai"
	"matching-backend/internal/companies"
	"matching-backend/internal/prompts"
)

func setupRouter(t *testing.T, gpt, research ai.Client) (*gin.Engine, int64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	companyRepo := companies.NewMemoryRepo()
	company, err := companyRepo.Create(context.Background(), companies.Company{Name: "Hansol Foods", Industry: "food"})
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
		CompanyID:       company.ID,
		TargetCountries: []string{"Vietnam"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, created.ID
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRunGPTReturns200WithSuccessFalseOnFailure(t *testing.T) {
	router, _ := setupRouter(t, &scriptedAI{provider: "gpt"}, &scriptedAI{provider: "perplexity"})

	resp := postJSON(t, router, "/api/v1/analysis/gpt", map[string]any{"matchingRequestId": 9999})
	if resp.Code != http.StatusOK {
		t.Fatalf("designed failure response must be HTTP 200, got %d", resp.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Success {
		t.Fatal("expected success=false")
	}
	if body.Error == "" {
		t.Fatal("expected error message in body")
	}
}

func TestRunMarketResearchSuccessResponse(t *testing.T) {
	research := &scriptedAI{
		provider: "perplexity",
		results:  []ai.ChatResult{{Content: `{"market_overview": "growing"}`}},
	}
	router, id := setupRouter(t, &scriptedAI{provider: "gpt"}, research)

	resp := postJSON(t, router, "/api/v1/analysis/market-research", map[string]any{"matchingRequestId": id})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Success    bool  `json:"success"`
		AnalysisID int64 `json:"analysisId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !body.Success || body.AnalysisID != id {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestRejectRequiresReasonBody(t *testing.T) {
	router, id := setupRouter(t, &scriptedAI{provider: "gpt"}, &scriptedAI{provider: "perplexity"})

	resp := postJSON(t, router, "/api/v1/matching-requests/"+strconv.FormatInt(id, 10)+"/reject", map[string]any{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Code)
	}
}

func TestSubmitEndpointCreatesPendingRequest(t *testing.T) {
	router, _ := setupRouter(t, &scriptedAI{provider: "gpt"}, &scriptedAI{provider: "perplexity"})

	resp := postJSON(t, router, "/api/v1/matching-requests", map[string]any{
		"companyId":       1,
		"targetCountries": []string{"Japan"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created MatchingRequest
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if created.WorkflowStatus != WorkflowPending || created.Status != StatusPending {
		t.Fatalf("expected pending request, got %s/%s", created.WorkflowStatus, created.Status)
	}
}
