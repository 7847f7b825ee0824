package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"matching-backend/internal/extract"
	"matching-backend/internal/shared/storage/object"
	"matching-backend/internal/shared/telemetry"
)

// Service contains business logic for reference documents attached to
// matching requests.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload saves the file to object storage, records the document, and runs
// text extraction. Extraction failures are logged but do not fail the upload.
func (s *Service) Upload(ctx context.Context, requestID int64, fileName string, r io.Reader) (Document, error) {
	if requestID <= 0 || fileName == "" {
		return Document{}, ErrInvalidInput
	}

	namespace := fmt.Sprintf("requests/%d", requestID)
	storageKey, size, mimeType, err := s.Store.Save(ctx, namespace, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:                uuid.NewString(),
		MatchingRequestID: requestID,
		FileName:          fileName,
		MimeType:          mimeType,
		SizeBytes:         size,
		StorageKey:        storageKey,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	if _, err := extract.ExtractText(ctx, s.Store, storageKey, mimeType, fileName); err != nil {
		telemetry.Warn("documents.extract_failed", map[string]any{
			"document_id":         doc.ID,
			"matching_request_id": requestID,
			"mime_type":           mimeType,
			"error":               err.Error(),
		})
		return doc, nil
	}

	extractedAt := time.Now().UTC()
	if err := s.Repo.UpdateExtraction(ctx, doc.ID, storageKey+".extracted.txt", extractedAt); err != nil {
		telemetry.Warn("documents.extraction_record_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return doc, nil
	}
	doc.ExtractedTextKey = storageKey + ".extracted.txt"
	doc.ExtractedAt = &extractedAt

	return doc, nil
}

// ListByRequest returns the documents attached to a matching request.
func (s *Service) ListByRequest(ctx context.Context, requestID int64) ([]Document, error) {
	if requestID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByRequest(ctx, requestID)
}

// ReferenceText loads the extracted text of every document on a request,
// keyed by file name. Documents without extracted text are skipped.
func (s *Service) ReferenceText(ctx context.Context, requestID int64) (map[string]any, error) {
	docs, err := s.Repo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	for _, doc := range docs {
		if doc.ExtractedTextKey == "" {
			continue
		}
		body, err := s.Store.Open(ctx, doc.ExtractedTextKey)
		if err != nil {
			telemetry.Warn("documents.reference_open_failed", map[string]any{
				"document_id": doc.ID,
				"key":         doc.ExtractedTextKey,
				"error":       err.Error(),
			})
			continue
		}
		raw, err := io.ReadAll(body)
		body.Close()
		if err != nil {
			telemetry.Warn("documents.reference_read_failed", map[string]any{
				"document_id": doc.ID,
				"key":         doc.ExtractedTextKey,
				"error":       err.Error(),
			})
			continue
		}
		out[doc.FileName] = strings.TrimSpace(string(raw))
	}
	return out, nil
}
