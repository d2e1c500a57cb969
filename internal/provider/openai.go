package provider

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openaiBackend calls the OpenAI chat completions API via go-openai. The
// system prompt travels as the leading system message; self turns become
// assistant messages, other turns become user messages.
type openaiBackend struct {
	baseURL    string
	httpClient *http.Client
}

func newOpenAIBackend(baseURL string, httpClient *http.Client) *openaiBackend {
	return &openaiBackend{baseURL: baseURL, httpClient: httpClient}
}

func (b *openaiBackend) generate(ctx context.Context, model, systemPrompt string, history []Turn, apiKey string) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if b.baseURL != "" {
		cfg.BaseURL = b.baseURL
	}
	cfg.HTTPClient = b.httpClient
	client := openai.NewClientWithConfig(cfg)

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Speaker == SpeakerSelf {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
