package documents

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new request document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO request_documents (
    id,
    matching_request_id,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    extracted_text_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.MatchingRequestID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.ExtractedTextKey,
		doc.CreatedAt,
	)
	return err
}

// ListByRequest lists documents for a matching request, newest first.
func (r *PGRepo) ListByRequest(ctx context.Context, requestID int64) ([]Document, error) {
	const query = `
SELECT id, matching_request_id, file_name, mime_type, size_bytes, storage_key, extracted_text_key, extracted_at, created_at
FROM request_documents
WHERE matching_request_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var extractedAt sql.NullTime
		if err := rows.Scan(
			&doc.ID,
			&doc.MatchingRequestID,
			&doc.FileName,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.StorageKey,
			&doc.ExtractedTextKey,
			&extractedAt,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		if extractedAt.Valid {
			doc.ExtractedAt = &extractedAt.Time
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateExtraction stores the extracted text metadata for a document.
func (r *PGRepo) UpdateExtraction(ctx context.Context, docID, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE request_documents
SET extracted_text_key = $1, extracted_at = $2
WHERE id = $3 AND extracted_text_key = ''`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, docID)
	return err
}

var _ Repo = (*PGRepo)(nil)
