package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"matching-backend/internal/ai"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	providerName = "gpt"
)

// Client implements ai.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("OPENAI_MODEL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY", ai.ErrMissingAPIKey)
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Provider returns the provider key used in merged research records.
func (c *Client) Provider() string {
	return providerName
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete performs a single chat completion call.
func (c *Client) Complete(ctx context.Context, req ai.ChatRequest) (ai.ChatResult, error) {
	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})

	temp := float32(0)
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   req.MaxTokens,
	}
	if req.StructuredJSON {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return ai.ChatResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return ai.ChatResult{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return ai.ChatResult{}, fmt.Errorf("openai request timeout: %w", err)
		}
		return ai.ChatResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ai.ChatResult{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ai.ChatResult{}, &ai.StatusError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(body),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ai.ChatResult{}, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return ai.ChatResult{}, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return ai.ChatResult{}, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return ai.ChatResult{}, fmt.Errorf("openai response empty content")
	}
	logUsage(c.model, parsed)
	return ai.ChatResult{Content: content, Model: parsed.Model}, nil
}

func logUsage(model string, parsed chatResponse) {
	if parsed.Usage == nil {
		return
	}
	log.Printf("openai response model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens, parsed.Usage.TotalTokens)
}

func truncateBody(body []byte) string {
	const maxLen = 500
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}

var _ ai.Client = (*Client)(nil)
