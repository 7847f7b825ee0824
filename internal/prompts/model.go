package prompts

import "time"

// Template is an admin-editable prompt override for a given call purpose.
// Inactive templates are never selected; the workflow never deletes them.
type Template struct {
	ID                 int64     `json:"id"`
	PromptType         string    `json:"promptType"`
	SystemPrompt       string    `json:"systemPrompt"`
	UserPromptTemplate string    `json:"userPromptTemplate"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Resolved is the prompt pair handed to the analysis invoker.
type Resolved struct {
	SystemPrompt       string
	UserPromptTemplate string
	// Source is "template" when an admin override matched, "default" otherwise.
	Source string
}

// Call purposes matched by substring against Template.PromptType.
const (
	PurposeGPTBasic   = "gpt_basic"
	PurposeGPTMarket  = "gpt_market"
	PurposePerplexity = "perplexity"
)
