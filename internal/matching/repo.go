package matching

import (
	"context"
	"time"
)

// Repo defines persistence operations for matching requests. All writes are
// full-field updates keyed by request id; there is no partial-field locking
// and no transaction spanning both analysis branches.
type Repo interface {
	Create(ctx context.Context, req MatchingRequest) (MatchingRequest, error)
	GetByID(ctx context.Context, id int64) (MatchingRequest, error)
	List(ctx context.Context) ([]MatchingRequest, error)

	UpdateWorkflowStatus(ctx context.Context, id int64, workflowStatus, status string) error
	UpdateAIAnalysis(ctx context.Context, id int64, analysis, research map[string]any, workflowStatus, status string) error
	UpdateMarketResearch(ctx context.Context, id int64, research map[string]any, workflowStatus, status string) error
	UpdateErrorDetails(ctx context.Context, id int64, details map[string]any, workflowStatus string) error

	// Approve freezes the final report exactly once; a second call returns
	// ErrAlreadyFinalized.
	Approve(ctx context.Context, id int64, comments string, finalReport map[string]any, approvedAt time.Time) error
	Reject(ctx context.Context, id int64, reason string) error
}
