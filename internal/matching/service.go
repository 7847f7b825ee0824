package matching

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"matching-backend/internal/ai"
	"matching-backend/internal/companies"
	"matching-backend/internal/documents"
	"matching-backend/internal/prompts"
	"matching-backend/internal/shared/telemetry"
	"matching-backend/internal/usage"
)

// Provider keys under market_research.
const (
	ProviderGPT        = "gpt"
	ProviderPerplexity = "perplexity"
)

const completionMaxTokens = 4000

// Service is the workflow orchestrator: it sequences the two analysis
// branches, writes intermediate and final workflow status, merges results,
// and records failure detail. Each branch runs to completion within one
// invocation; there is no job queue.
type Service struct {
	Repo      Repo
	Companies companies.Repo
	Documents *documents.Service
	Prompts   *prompts.Resolver
	// GPT and Research are retry-wrapped clients for the essential
	// language-model branch and the supplementary grounded-research branch.
	GPT      ai.Client
	Research ai.Client
	Usage    *usage.Service

	DefaultLanguage string
}

// Submit creates a new matching request in the pending state.
func (s *Service) Submit(ctx context.Context, req MatchingRequest) (MatchingRequest, error) {
	if req.CompanyID <= 0 {
		return MatchingRequest{}, fmt.Errorf("%w: company id required", ErrInvalidInput)
	}
	req.TargetCountries = trimCountries(req.TargetCountries)
	if len(req.TargetCountries) == 0 {
		return MatchingRequest{}, ErrNoTargetCountries
	}
	if _, err := s.Companies.GetByID(ctx, req.CompanyID); err != nil {
		if errors.Is(err, companies.ErrNotFound) {
			return MatchingRequest{}, fmt.Errorf("%w: company %d", ErrInvalidInput, req.CompanyID)
		}
		return MatchingRequest{}, err
	}

	req.Status = StatusPending
	req.WorkflowStatus = WorkflowPending
	req.AIAnalysis = nil
	req.MarketResearch = nil
	req.FinalReport = nil
	req.ErrorDetails = nil
	req.AdminComments = ""

	created, err := s.Repo.Create(ctx, req)
	if err != nil {
		return MatchingRequest{}, err
	}
	telemetry.Info("matching.submitted", map[string]any{
		"matching_request_id": created.ID,
		"company_id":          created.CompanyID,
		"target_countries":    created.TargetCountries,
	})
	return created, nil
}

// Get returns a matching request by id.
func (s *Service) Get(ctx context.Context, id int64) (MatchingRequest, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns all matching requests, newest first.
func (s *Service) List(ctx context.Context) ([]MatchingRequest, error) {
	return s.Repo.List(ctx)
}

// AttachDocument uploads a reference document for a request and advances a
// pending workflow to documents_uploaded.
func (s *Service) AttachDocument(ctx context.Context, requestID int64, fileName string, r io.Reader) (documents.Document, error) {
	if s.Documents == nil {
		return documents.Document{}, ErrMissingDependency
	}
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return documents.Document{}, err
	}
	doc, err := s.Documents.Upload(ctx, requestID, fileName, r)
	if err != nil {
		return documents.Document{}, err
	}
	if req.WorkflowStatus == WorkflowPending {
		if err := s.Repo.UpdateWorkflowStatus(ctx, requestID, WorkflowDocumentsUploaded, req.Status); err != nil {
			telemetry.Warn("matching.status_update_failed", map[string]any{
				"matching_request_id": requestID,
				"workflow_status":     WorkflowDocumentsUploaded,
				"error":               err.Error(),
			})
		}
	}
	return doc, nil
}

// RunGPTAnalysis executes the essential language-model branch: a general
// analysis call followed by a market-focused call. Failure after retries is
// hard: the workflow stops at gpt_failed with error_details populated.
func (s *Service) RunGPTAnalysis(ctx context.Context, requestID int64, adminPrompt, language string) (string, error) {
	if s.GPT == nil || s.Prompts == nil {
		return "", ErrMissingDependency
	}
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if len(req.TargetCountries) == 0 {
		return "", ErrNoTargetCountries
	}
	locale := s.locale(language)

	company, err := s.Companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		err = fmt.Errorf("company lookup id=%d: %w", req.CompanyID, err)
		s.failGPT(ctx, requestID, err)
		return locale, err
	}

	// Processing is written before the external call so a crash mid-call is
	// observably stuck, not silently pending.
	if err := s.Repo.UpdateWorkflowStatus(ctx, requestID, WorkflowGPTProcessing, StatusProcessing); err != nil {
		err = fmt.Errorf("set gpt_processing: %w", err)
		s.failGPT(ctx, requestID, err)
		return locale, err
	}
	s.logTransition(requestID, req.WorkflowStatus, WorkflowGPTProcessing)

	rc := s.renderContext(ctx, req, company, adminPrompt)

	basic := s.Prompts.Resolve(ctx, prompts.PurposeGPTBasic, locale)
	basicPrompt := prompts.Render(basic.UserPromptTemplate, rc)
	basicResult, err := s.GPT.Complete(ctx, ai.ChatRequest{
		SystemPrompt:   basic.SystemPrompt,
		UserPrompt:     basicPrompt,
		MaxTokens:      completionMaxTokens,
		StructuredJSON: true,
	})
	s.recordCall(ctx, req, s.GPT.Provider(), basicResult.Model, prompts.PurposeGPTBasic)
	if err != nil {
		err = fmt.Errorf("gpt basic analysis: %w", err)
		s.failGPT(ctx, requestID, err)
		return locale, err
	}
	analysis := normalizeStrict(basicResult.Content)

	market := s.Prompts.Resolve(ctx, prompts.PurposeGPTMarket, locale)
	marketPrompt := prompts.Render(market.UserPromptTemplate, rc)
	marketResult, err := s.GPT.Complete(ctx, ai.ChatRequest{
		SystemPrompt:   market.SystemPrompt,
		UserPrompt:     marketPrompt,
		MaxTokens:      completionMaxTokens,
		StructuredJSON: true,
	})
	s.recordCall(ctx, req, s.GPT.Provider(), marketResult.Model, prompts.PurposeGPTMarket)
	if err != nil {
		err = fmt.Errorf("gpt market analysis: %w", err)
		s.failGPT(ctx, requestID, err)
		return locale, err
	}
	marketData := normalizeStrict(marketResult.Content)

	env := CompletedEnvelope(ProviderGPT, marketPrompt, marketData, nil, time.Now())
	merged := MergeResearch(req.MarketResearch, ProviderGPT, env)
	if err := s.Repo.UpdateAIAnalysis(ctx, requestID, analysis, merged, WorkflowGPTCompleted, StatusProcessing); err != nil {
		err = fmt.Errorf("persist gpt analysis: %w", err)
		s.failGPT(ctx, requestID, err)
		return locale, err
	}
	s.logTransition(requestID, WorkflowGPTProcessing, WorkflowGPTCompleted)
	return locale, nil
}

// RunMarketResearch executes the supplementary grounded-research branch.
// Failure after retries is soft: the envelope records the diagnostics and the
// workflow still advances to perplexity_completed so review can proceed.
func (s *Service) RunMarketResearch(ctx context.Context, requestID int64, adminPrompt string) error {
	if s.Research == nil || s.Prompts == nil {
		return ErrMissingDependency
	}
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if len(req.TargetCountries) == 0 {
		return ErrNoTargetCountries
	}
	locale := s.locale("")
	provider := s.Research.Provider()

	company, err := s.Companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		err = fmt.Errorf("company lookup id=%d: %w", req.CompanyID, err)
		s.failResearch(ctx, requestID, req.WorkflowStatus, err)
		return err
	}

	if err := s.Repo.UpdateWorkflowStatus(ctx, requestID, WorkflowAIProcessing, StatusProcessing); err != nil {
		err = fmt.Errorf("set ai_processing: %w", err)
		s.failResearch(ctx, requestID, req.WorkflowStatus, err)
		return err
	}
	s.logTransition(requestID, req.WorkflowStatus, WorkflowAIProcessing)

	rc := s.renderContext(ctx, req, company, adminPrompt)
	resolved := s.Prompts.Resolve(ctx, prompts.PurposePerplexity, locale)
	prompt := prompts.Render(resolved.UserPromptTemplate, rc)

	result, callErr := s.Research.Complete(ctx, ai.ChatRequest{
		SystemPrompt: resolved.SystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    completionMaxTokens,
	})
	s.recordCall(ctx, req, provider, result.Model, prompts.PurposePerplexity)

	var env Envelope
	if callErr != nil {
		env = FailedEnvelope(provider, prompt, sanitizeError(callErr), classifyAIError(callErr), ai.StatusCodeOf(callErr), time.Now())
		telemetry.Warn("matching.research_soft_failed", map[string]any{
			"matching_request_id": requestID,
			"provider":            provider,
			"error_type":          env.ErrorType,
			"status_code":         env.StatusCode,
		})
	} else {
		data := normalizeTolerant(result.Content, locale)
		env = CompletedEnvelope(provider, prompt, data, result.Citations, time.Now())
	}

	merged := MergeResearch(req.MarketResearch, provider, env)
	if err := s.Repo.UpdateMarketResearch(ctx, requestID, merged, WorkflowPerplexityCompleted, StatusProcessing); err != nil {
		err = fmt.Errorf("persist market research: %w", err)
		s.failResearch(ctx, requestID, WorkflowAIProcessing, err)
		return err
	}
	s.logTransition(requestID, WorkflowAIProcessing, WorkflowPerplexityCompleted)
	return nil
}

// MarkReview moves a request into admin review. This is an explicit admin
// action; the workflow never self-advances past the branch markers.
func (s *Service) MarkReview(ctx context.Context, requestID int64) error {
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateWorkflowStatus(ctx, requestID, WorkflowAdminReview, StatusProcessing); err != nil {
		return err
	}
	s.logTransition(requestID, req.WorkflowStatus, WorkflowAdminReview)
	return nil
}

// Approve finalizes a request, freezing final_report as a snapshot of
// ai_analysis + market_research + admin_comments at this instant. The
// snapshot is written once; later branch re-runs never touch it.
func (s *Service) Approve(ctx context.Context, requestID int64, comments string) (MatchingRequest, error) {
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return MatchingRequest{}, err
	}
	if req.FinalReport != nil {
		return MatchingRequest{}, ErrAlreadyFinalized
	}

	approvedAt := time.Now().UTC()
	report := map[string]any{
		"ai_analysis":     req.AIAnalysis,
		"market_research": req.MarketResearch,
		"admin_comments":  comments,
		"approved_at":     approvedAt.Format(time.RFC3339),
	}
	if err := s.Repo.Approve(ctx, requestID, comments, report, approvedAt); err != nil {
		return MatchingRequest{}, err
	}
	s.logTransition(requestID, req.WorkflowStatus, WorkflowFinalized)
	return s.Repo.GetByID(ctx, requestID)
}

// Reject records the reason and reverts the coarse status to pending so the
// workflow can be resubmitted.
func (s *Service) Reject(ctx context.Context, requestID int64, reason string) (MatchingRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return MatchingRequest{}, fmt.Errorf("%w: rejection reason required", ErrInvalidInput)
	}
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return MatchingRequest{}, err
	}
	if err := s.Repo.Reject(ctx, requestID, reason); err != nil {
		return MatchingRequest{}, err
	}
	s.logTransition(requestID, req.WorkflowStatus, WorkflowRejected)
	return s.Repo.GetByID(ctx, requestID)
}

// RecordInvocationFailure is the outermost write-back for invocation-level
// exceptions: best effort, never masks the original error.
func (s *Service) RecordInvocationFailure(ctx context.Context, requestID int64, failureType string, cause error) {
	req, err := s.Repo.GetByID(context.Background(), requestID)
	if err != nil {
		telemetry.Warn("matching.error_details_write_failed", map[string]any{
			"matching_request_id": requestID,
			"error":               err.Error(),
		})
		return
	}
	s.writeErrorDetails(requestID, req.WorkflowStatus, failureType, cause)
}

func (s *Service) failGPT(ctx context.Context, requestID int64, cause error) {
	s.writeErrorDetails(requestID, WorkflowGPTFailed, "gpt_analysis", cause)
	telemetry.Error("matching.gpt_failed", map[string]any{
		"matching_request_id": requestID,
		"error":               sanitizeError(cause),
	})
}

func (s *Service) failResearch(ctx context.Context, requestID int64, workflowStatus string, cause error) {
	s.writeErrorDetails(requestID, workflowStatus, "perplexity_analysis", cause)
	telemetry.Error("matching.research_failed", map[string]any{
		"matching_request_id": requestID,
		"error":               sanitizeError(cause),
	})
}

// writeErrorDetails persists the last failure context. Write failures are
// logged and swallowed so they never mask the original error.
func (s *Service) writeErrorDetails(requestID int64, workflowStatus, failureType string, cause error) {
	details := map[string]any{
		"type":      failureType,
		"message":   sanitizeError(cause),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Repo.UpdateErrorDetails(context.Background(), requestID, details, workflowStatus); err != nil {
		telemetry.Warn("matching.error_details_write_failed", map[string]any{
			"matching_request_id": requestID,
			"error":               err.Error(),
		})
	}
}

func (s *Service) renderContext(ctx context.Context, req MatchingRequest, company companies.Company, adminPrompt string) prompts.RenderContext {
	var ref map[string]any
	if s.Documents != nil {
		data, err := s.Documents.ReferenceText(ctx, req.ID)
		if err != nil {
			telemetry.Warn("matching.reference_data_unavailable", map[string]any{
				"matching_request_id": req.ID,
				"error":               err.Error(),
			})
		} else if len(data) > 0 {
			ref = data
		}
	}
	return prompts.RenderContext{
		CompanyName:        company.Name,
		Industry:           company.Industry,
		TargetCountries:    req.TargetCountries,
		CompanyDescription: req.CompanyDescription,
		ProductInfo:        req.ProductInfo,
		MarketInfo:         req.MarketInfo,
		ReferenceData:      ref,
		AdminInstructions:  adminPrompt,
	}
}

func (s *Service) recordCall(ctx context.Context, req MatchingRequest, provider, model, purpose string) {
	if s.Usage == nil {
		return
	}
	s.Usage.Record(ctx, usage.Call{
		CompanyID:         req.CompanyID,
		MatchingRequestID: req.ID,
		Provider:          provider,
		Model:             model,
		Purpose:           purpose,
	})
}

func (s *Service) locale(language string) string {
	switch language {
	case "ko", "ja", "en":
		return language
	}
	if s.DefaultLanguage != "" {
		return s.DefaultLanguage
	}
	return "ko"
}

func (s *Service) logTransition(requestID int64, from, to string) {
	telemetry.Info("matching.workflow", map[string]any{
		"matching_request_id": requestID,
		"workflow_transition": from + "->" + to,
	})
}

func trimCountries(countries []string) []string {
	var out []string
	for _, c := range countries {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func classifyAIError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ai.ErrMissingAPIKey):
		return "missing_api_key"
	case ai.StatusCodeOf(err) > 0:
		return "http_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "network_error"
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
