package prompts

import (
	"context"
	"errors"

	"matching-backend/internal/shared/telemetry"
)

// Resolver returns the prompt pair for a call purpose, preferring an
// admin-managed override over the built-in localized default.
type Resolver struct {
	Repo Repo
}

// Resolve looks up the newest active override matching the purpose. A lookup
// failure is treated as "no override found" and must never abort an analysis.
func (r *Resolver) Resolve(ctx context.Context, purpose, locale string) Resolved {
	if r.Repo != nil {
		tmpl, err := r.Repo.LatestActiveByPurpose(ctx, purpose)
		if err == nil {
			return Resolved{
				SystemPrompt:       tmpl.SystemPrompt,
				UserPromptTemplate: tmpl.UserPromptTemplate,
				Source:             "template",
			}
		}
		if !errors.Is(err, ErrNotFound) {
			telemetry.Warn("prompts.lookup_failed", map[string]any{
				"purpose": purpose,
				"error":   err.Error(),
			})
		}
	}

	d := BuiltinDefault(purpose, locale)
	return Resolved{
		SystemPrompt:       d.SystemPrompt,
		UserPromptTemplate: d.UserPromptTemplate,
		Source:             "default",
	}
}
