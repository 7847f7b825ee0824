package documents

import (
	"context"
	"strings"
	"testing"

	localstore "matching-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Store: localstore.New(t.TempDir()),
		Repo:  NewMemoryRepo(),
	}
}

func TestUploadExtractsPlainText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, 7, "company-profile.txt", strings.NewReader("Hansol Foods exports fermented sauces."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected generated document id")
	}
	if doc.ExtractedTextKey == "" {
		t.Fatalf("expected extracted text key to be recorded")
	}
	if doc.ExtractedAt == nil {
		t.Fatalf("expected extraction timestamp")
	}

	listed, err := svc.ListByRequest(ctx, 7)
	if err != nil {
		t.Fatalf("ListByRequest: %v", err)
	}
	if len(listed) != 1 || listed[0].FileName != "company-profile.txt" {
		t.Fatalf("unexpected listing: %+v", listed)
	}
}

func TestUploadSurvivesExtractionFailure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// PNG magic bytes: saved fine, but no text extractor accepts the type.
	payload := string([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0})
	doc, err := svc.Upload(ctx, 3, "logo.png", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ExtractedTextKey != "" {
		t.Fatalf("expected no extracted text key, got %q", doc.ExtractedTextKey)
	}

	listed, err := svc.ListByRequest(ctx, 3)
	if err != nil {
		t.Fatalf("ListByRequest: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("upload should still be recorded, got %d documents", len(listed))
	}
}

func TestUploadRejectsInvalidInput(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Upload(context.Background(), 0, "a.txt", strings.NewReader("x")); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for request id 0, got %v", err)
	}
	if _, err := svc.Upload(context.Background(), 5, "", strings.NewReader("x")); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty file name, got %v", err)
	}
}

func TestReferenceTextKeyedByFileName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, 9, "market-notes.txt", strings.NewReader("  Vietnam retail channels are growing.  ")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	// Document without extracted text is skipped.
	payload := string([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0})
	if _, err := svc.Upload(ctx, 9, "photo.png", strings.NewReader(payload)); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	refs, err := svc.ReferenceText(ctx, 9)
	if err != nil {
		t.Fatalf("ReferenceText: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d: %v", len(refs), refs)
	}
	if refs["market-notes.txt"] != "Vietnam retail channels are growing." {
		t.Fatalf("unexpected reference text: %v", refs["market-notes.txt"])
	}
}
