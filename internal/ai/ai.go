package ai

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts a single chat-completion provider.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResult, error)
	Provider() string
}

// ChatRequest carries one fully-rendered prompt pair and model parameters.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	// StructuredJSON asks the provider to enforce a JSON object response
	// where the provider supports it.
	StructuredJSON bool
}

// ChatResult is the raw text completion plus optional source citations.
type ChatResult struct {
	Content   string
	Citations []string
	Model     string
}

// ErrMissingAPIKey indicates a configuration failure; retrying cannot help.
var ErrMissingAPIKey = errors.New("api key not configured")

// StatusError is a non-2xx provider response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s http status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// StatusCodeOf extracts the HTTP status from a provider error chain, or 0.
func StatusCodeOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
