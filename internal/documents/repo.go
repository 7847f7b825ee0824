package documents

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repo defines persistence operations for request documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	ListByRequest(ctx context.Context, requestID int64) ([]Document, error)
	UpdateExtraction(ctx context.Context, docID, extractedKey string, extractedAt time.Time) error
}
