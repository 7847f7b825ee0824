package matching

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for dev mode and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]MatchingRequest
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		byID:   make(map[int64]MatchingRequest),
	}
}

// Create stores a new matching request.
func (r *MemoryRepo) Create(ctx context.Context, req MatchingRequest) (MatchingRequest, error) {
	if err := ctx.Err(); err != nil {
		return MatchingRequest{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	req.ID = r.nextID
	r.nextID++
	req.CreatedAt = now
	req.UpdatedAt = now
	r.byID[req.ID] = cloneRequest(req)
	return req, nil
}

// GetByID returns a matching request by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (MatchingRequest, error) {
	if err := ctx.Err(); err != nil {
		return MatchingRequest{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.byID[id]
	if !ok {
		return MatchingRequest{}, ErrNotFound
	}
	return cloneRequest(req), nil
}

// List returns all matching requests, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]MatchingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MatchingRequest, 0, len(r.byID))
	for _, req := range r.byID {
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateWorkflowStatus writes the status pair.
func (r *MemoryRepo) UpdateWorkflowStatus(ctx context.Context, id int64, workflowStatus, status string) error {
	return r.update(ctx, id, func(req *MatchingRequest) {
		req.WorkflowStatus = workflowStatus
		req.Status = status
	})
}

// UpdateAIAnalysis writes the language-model branch output plus the merged
// research mapping.
func (r *MemoryRepo) UpdateAIAnalysis(ctx context.Context, id int64, analysis, research map[string]any, workflowStatus, status string) error {
	return r.update(ctx, id, func(req *MatchingRequest) {
		req.AIAnalysis = cloneMap(analysis)
		req.MarketResearch = cloneMap(research)
		req.WorkflowStatus = workflowStatus
		req.Status = status
	})
}

// UpdateMarketResearch writes the merged research mapping only.
func (r *MemoryRepo) UpdateMarketResearch(ctx context.Context, id int64, research map[string]any, workflowStatus, status string) error {
	return r.update(ctx, id, func(req *MatchingRequest) {
		req.MarketResearch = cloneMap(research)
		req.WorkflowStatus = workflowStatus
		req.Status = status
	})
}

// UpdateErrorDetails records the last failure context.
func (r *MemoryRepo) UpdateErrorDetails(ctx context.Context, id int64, details map[string]any, workflowStatus string) error {
	return r.update(ctx, id, func(req *MatchingRequest) {
		req.ErrorDetails = cloneMap(details)
		req.WorkflowStatus = workflowStatus
	})
}

// Approve freezes the final report exactly once.
func (r *MemoryRepo) Approve(ctx context.Context, id int64, comments string, finalReport map[string]any, approvedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if req.FinalReport != nil {
		return ErrAlreadyFinalized
	}
	at := approvedAt.UTC()
	req.FinalReport = cloneMap(finalReport)
	req.AdminComments = comments
	req.WorkflowStatus = WorkflowFinalized
	req.Status = StatusCompleted
	req.ApprovedAt = &at
	req.CompletedAt = &at
	req.UpdatedAt = at
	r.byID[id] = req
	return nil
}

// Reject records the reason and reverts the coarse status to pending.
func (r *MemoryRepo) Reject(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, id, func(req *MatchingRequest) {
		req.WorkflowStatus = WorkflowRejected
		req.Status = StatusPending
		req.AdminComments = reason
	})
}

func (r *MemoryRepo) update(ctx context.Context, id int64, mutate func(*MatchingRequest)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	mutate(&req)
	req.UpdatedAt = time.Now().UTC()
	r.byID[id] = req
	return nil
}

func cloneRequest(req MatchingRequest) MatchingRequest {
	out := req
	out.TargetCountries = append([]string(nil), req.TargetCountries...)
	out.AIAnalysis = cloneMap(req.AIAnalysis)
	out.MarketResearch = cloneMap(req.MarketResearch)
	out.FinalReport = cloneMap(req.FinalReport)
	out.ErrorDetails = cloneMap(req.ErrorDetails)
	return out
}

// cloneMap deep-copies via a JSON round trip so callers can never mutate a
// stored snapshot through a shared reference.
func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	raw, err := json.Marshal(src)
	if err != nil {
		out := make(map[string]any, len(src))
		for k, v := range src {
			out[k] = v
		}
		return out
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return src
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
