package prompts

import "context"

// Repo defines persistence operations for prompt templates.
type Repo interface {
	Create(ctx context.Context, tmpl Template) (Template, error)
	Update(ctx context.Context, tmpl Template) (Template, error)
	GetByID(ctx context.Context, id int64) (Template, error)
	List(ctx context.Context) ([]Template, error)
	// LatestActiveByPurpose returns the most-recently-updated active template
	// whose prompt_type contains the purpose substring.
	LatestActiveByPurpose(ctx context.Context, purpose string) (Template, error)
}
