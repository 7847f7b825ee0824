package companies

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores companies in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Company
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		byID:   make(map[int64]Company),
	}
}

// Create stores the company.
func (r *MemoryRepo) Create(ctx context.Context, company Company) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	company.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now
	r.byID[company.ID] = company
	return company, nil
}

// GetByID returns a company by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.byID[id]
	if !ok {
		return Company{}, ErrNotFound
	}
	return company, nil
}

var _ Repo = (*MemoryRepo)(nil)
