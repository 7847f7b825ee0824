package matching

import "time"

// Coarse lifecycle status.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// Fine-grained workflow status tracking progress through the analysis
// pipeline.
const (
	WorkflowPending             = "pending"
	WorkflowDocumentsUploaded   = "documents_uploaded"
	WorkflowGPTProcessing       = "gpt_processing"
	WorkflowGPTCompleted        = "gpt_completed"
	WorkflowGPTFailed           = "gpt_failed"
	WorkflowAIProcessing        = "ai_processing"
	WorkflowPerplexityCompleted = "perplexity_completed"
	WorkflowAdminReview         = "admin_review"
	WorkflowCompleted           = "completed"
	WorkflowFinalized           = "finalized"
	WorkflowRejected            = "rejected"
)

// MatchingRequest is the central entity: one company's request for an
// AI-driven market analysis of its target countries.
type MatchingRequest struct {
	ID                 int64          `json:"id"`
	CompanyID          int64          `json:"companyId"`
	TargetCountries    []string       `json:"targetCountries"`
	CompanyDescription string         `json:"companyDescription"`
	ProductInfo        string         `json:"productInfo"`
	MarketInfo         string         `json:"marketInfo"`
	Status             string         `json:"status"`
	WorkflowStatus     string         `json:"workflowStatus"`
	AIAnalysis         map[string]any `json:"aiAnalysis,omitempty"`
	MarketResearch     map[string]any `json:"marketResearch,omitempty"`
	AdminComments      string         `json:"adminComments,omitempty"`
	FinalReport        map[string]any `json:"finalReport,omitempty"`
	ErrorDetails       map[string]any `json:"errorDetails,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
	ApprovedAt         *time.Time     `json:"approvedAt,omitempty"`
}
