package prompts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo stores prompt templates in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Template
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		byID:   make(map[int64]Template),
	}
}

// Create stores the template.
func (r *MemoryRepo) Create(ctx context.Context, tmpl Template) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tmpl.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	r.byID[tmpl.ID] = tmpl
	return tmpl, nil
}

// Update replaces the editable fields of an existing template.
func (r *MemoryRepo) Update(ctx context.Context, tmpl Template) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[tmpl.ID]
	if !ok {
		return Template{}, ErrNotFound
	}
	existing.PromptType = tmpl.PromptType
	existing.SystemPrompt = tmpl.SystemPrompt
	existing.UserPromptTemplate = tmpl.UserPromptTemplate
	existing.IsActive = tmpl.IsActive
	existing.UpdatedAt = time.Now().UTC()
	r.byID[tmpl.ID] = existing
	return existing, nil
}

// GetByID returns a template by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.byID[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	return tmpl, nil
}

// List returns all templates, newest-updated first.
func (r *MemoryRepo) List(ctx context.Context) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.byID))
	for _, tmpl := range r.byID {
		out = append(out, tmpl)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// LatestActiveByPurpose returns the newest active template whose type contains the purpose.
func (r *MemoryRepo) LatestActiveByPurpose(ctx context.Context, purpose string) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best Template
	found := false
	for _, tmpl := range r.byID {
		if !tmpl.IsActive || !strings.Contains(tmpl.PromptType, purpose) {
			continue
		}
		if !found || tmpl.UpdatedAt.After(best.UpdatedAt) {
			best = tmpl
			found = true
		}
	}
	if !found {
		return Template{}, ErrNotFound
	}
	return best, nil
}

var _ Repo = (*MemoryRepo)(nil)
