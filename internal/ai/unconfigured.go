package ai

import (
	"context"
	"fmt"
)

// Unconfigured stands in for a provider whose API key is absent. Calls fail
// with ErrMissingAPIKey so the workflow records a configuration error instead
// of the process refusing to start.
type Unconfigured struct {
	ProviderName string
}

func (u Unconfigured) Provider() string {
	return u.ProviderName
}

func (u Unconfigured) Complete(ctx context.Context, req ChatRequest) (ChatResult, error) {
	return ChatResult{}, fmt.Errorf("%w: %s", ErrMissingAPIKey, u.ProviderName)
}
