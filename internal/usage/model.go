package usage

import "time"

// Call is one billed AI API invocation.
type Call struct {
	ID                int64     `json:"id"`
	CompanyID         int64     `json:"companyId"`
	MatchingRequestID int64     `json:"matchingRequestId"`
	Provider          string    `json:"provider"`
	Model             string    `json:"model"`
	Purpose           string    `json:"purpose"`
	RequestedAt       time.Time `json:"requestedAt"`
}

// Summary aggregates call counts per provider over a window.
type Summary struct {
	Since      time.Time      `json:"since"`
	Total      int            `json:"total"`
	ByProvider map[string]int `json:"byProvider"`
}
