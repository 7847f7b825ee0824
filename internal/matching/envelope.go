package matching

import "time"

// Envelope is the per-provider result wrapper stored under
// market_research.<provider>. It is common to both analysis branches.
type Envelope struct {
	Status      string         `json:"status"`
	Data        map[string]any `json:"data"`
	Citations   []string       `json:"citations,omitempty"`
	Provider    string         `json:"provider"`
	PromptUsed  string         `json:"prompt_used"`
	GeneratedAt string         `json:"generated_at"`
	// Diagnostic fields, set only on soft failure.
	Error      string `json:"error,omitempty"`
	ErrorType  string `json:"error_type,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

const (
	EnvelopeCompleted = "completed"
	EnvelopeFailed    = "failed"
)

// CompletedEnvelope builds a success envelope for a provider.
func CompletedEnvelope(provider, promptUsed string, data map[string]any, citations []string, at time.Time) Envelope {
	return Envelope{
		Status:      EnvelopeCompleted,
		Data:        data,
		Citations:   citations,
		Provider:    provider,
		PromptUsed:  promptUsed,
		GeneratedAt: at.UTC().Format(time.RFC3339),
	}
}

// FailedEnvelope builds a soft-failure envelope carrying diagnostics so the
// admin always has a record to inspect.
func FailedEnvelope(provider, promptUsed, errMsg, errType string, statusCode int, at time.Time) Envelope {
	return Envelope{
		Status:      EnvelopeFailed,
		Data:        map[string]any{},
		Provider:    provider,
		PromptUsed:  promptUsed,
		GeneratedAt: at.UTC().Format(time.RFC3339),
		Error:       errMsg,
		ErrorType:   errType,
		StatusCode:  statusCode,
	}
}

func (e Envelope) asMap() map[string]any {
	out := map[string]any{
		"status":       e.Status,
		"data":         e.Data,
		"provider":     e.Provider,
		"prompt_used":  e.PromptUsed,
		"generated_at": e.GeneratedAt,
	}
	if len(e.Citations) > 0 {
		out["citations"] = e.Citations
	}
	if e.Error != "" {
		out["error"] = e.Error
	}
	if e.ErrorType != "" {
		out["error_type"] = e.ErrorType
	}
	if e.StatusCode != 0 {
		out["status_code"] = e.StatusCode
	}
	return out
}

// MergeResearch writes one provider's envelope into the market_research
// mapping without clobbering other providers' keys. The input map is not
// mutated.
func MergeResearch(existing map[string]any, provider string, env Envelope) map[string]any {
	merged := make(map[string]any, len(existing)+1)
	for k, v := range existing {
		merged[k] = v
	}
	merged[provider] = env.asMap()
	return merged
}
