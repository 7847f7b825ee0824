package documents

import "time"

// Document represents an uploaded reference document attached to a matching request.
type Document struct {
	ID                string     `json:"id"`
	MatchingRequestID int64      `json:"matchingRequestId"`
	FileName          string     `json:"fileName"`
	MimeType          string     `json:"mimeType"`
	SizeBytes         int64      `json:"sizeBytes"`
	StorageKey        string     `json:"-"`
	ExtractedTextKey  string     `json:"-"`
	ExtractedAt       *time.Time `json:"extractedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}
