package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicAPIVersion     = "2023-06-01"
)

// openingCue stands in for the history when an agent speaks first. The
// Anthropic and Gemini APIs reject empty message lists, so the very first
// call of a debate needs one user turn to respond to.
const openingCue = "Please present your opening argument."

// anthropicBackend calls the Anthropic Messages API. Self turns become
// assistant messages, other turns become user messages.
type anthropicBackend struct {
	baseURL    string
	httpClient *http.Client
}

func newAnthropicBackend(baseURL string, httpClient *http.Client) *anthropicBackend {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	return &anthropicBackend{baseURL: baseURL, httpClient: httpClient}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (b *anthropicBackend) generate(ctx context.Context, model, systemPrompt string, history []Turn, apiKey string) (string, error) {
	messages := make([]anthropicMessage, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Speaker == SpeakerSelf {
			role = "assistant"
		}
		messages = append(messages, anthropicMessage{Role: role, Content: turn.Text})
	}
	if len(messages) == 0 {
		messages = append(messages, anthropicMessage{Role: "user", Content: openingCue})
	}

	payload := anthropicRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var response anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("response contained no content blocks")
	}

	return response.Content[0].Text, nil
}
