package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestExtractTextFromBytesPlainText(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("  certification list\n"), "text/plain; charset=utf-8", "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "certification list" {
		t.Fatalf("got %q", text)
	}
}

func TestExtractTextFromBytesUnsupported(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte{0x00, 0x01}, "image/png", "logo.png")
	if err == nil {
		t.Fatalf("expected unsupported mime error")
	}
}

func TestExtractTextFromBytesDocx(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<?xml version="1.0"?><document><body><p><r><t>export plan</t></r></p></body></document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	text, err := ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "plan.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "export plan") {
		t.Fatalf("extracted text missing content: %q", text)
	}
}
