package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[int64][]Document // matching request id -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[int64][]Document),
	}
}

// Create stores a document under its matching request.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.MatchingRequestID] = append(r.data[doc.MatchingRequestID], doc)
	return nil
}

// ListByRequest returns documents for a matching request, newest first.
func (r *MemoryRepo) ListByRequest(ctx context.Context, requestID int64) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	reqDocs := r.data[requestID]
	r.mu.RUnlock()

	docs := make([]Document, len(reqDocs))
	copy(docs, reqDocs)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// UpdateExtraction stores the extracted text metadata for a document.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, docID, extractedKey string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for reqID, docs := range r.data {
		for i := range docs {
			if docs[i].ID == docID {
				if docs[i].ExtractedTextKey == "" {
					docs[i].ExtractedTextKey = extractedKey
					docs[i].ExtractedAt = &extractedAt
					r.data[reqID] = docs
				}
				return nil
			}
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
