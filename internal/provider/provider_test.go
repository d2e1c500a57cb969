package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyForModel(t *testing.T) {
	tests := []struct {
		model  string
		family Family
	}{
		{"claude-sonnet-4-5-20250929", FamilyAnthropic},
		{"claude-3-5-sonnet-20241022", FamilyAnthropic},
		{"gpt-4o", FamilyOpenAI},
		{"gpt-4-turbo", FamilyOpenAI},
		{"gemini-2.0-flash-exp", FamilyGemini},
		{"gemini-1.5-pro", FamilyGemini},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			family, err := FamilyForModel(tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.family, family)
		})
	}

	t.Run("unknown model", func(t *testing.T) {
		_, err := FamilyForModel("not-a-real-model")
		require.Error(t, err)
		assert.True(t, IsUnknownModel(err))
		assert.Contains(t, err.Error(), "not-a-real-model")
	})
}

func TestAvailableModels(t *testing.T) {
	models := AvailableModels()

	assert.Len(t, models, 3)
	assert.Contains(t, models["anthropic"], "claude-3-5-sonnet-20241022")
	assert.Contains(t, models["openai"], "gpt-4o")
	assert.Contains(t, models["gemini"], "gemini-1.5-pro")

	// Returned slices are copies, not views of the catalog
	models["openai"][0] = "mutated"
	assert.Contains(t, AvailableModels()["openai"], "gpt-4o")
}

// TestGenerateUnknownModel verifies resolution fails before any network call:
// the registry points at an unroutable address and must never reach it.
func TestGenerateUnknownModel(t *testing.T) {
	reg := NewRegistry(Config{
		AnthropicBaseURL: "http://127.0.0.1:1",
		OpenAIBaseURL:    "http://127.0.0.1:1",
		GeminiBaseURL:    "http://127.0.0.1:1",
	})

	_, err := reg.Generate(context.Background(), "not-a-real-model", "system", nil, Credentials{"openai": "key"})
	require.Error(t, err)
	assert.True(t, IsUnknownModel(err))
}

func TestGenerateMissingCredential(t *testing.T) {
	reg := NewRegistry(Config{AnthropicBaseURL: "http://127.0.0.1:1"})

	t.Run("no key for resolved family", func(t *testing.T) {
		_, err := reg.Generate(context.Background(), "claude-3-5-sonnet-20241022", "system", nil,
			Credentials{"openai": "other-family-key"})
		require.Error(t, err)
		assert.True(t, IsMissingCredential(err))
		assert.Contains(t, err.Error(), "anthropic")
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := reg.Generate(context.Background(), "claude-3-5-sonnet-20241022", "system", nil, nil)
		require.Error(t, err)
		assert.True(t, IsMissingCredential(err))
	})
}

func TestAnthropicBackend(t *testing.T) {
	var captured anthropicRequest
	var capturedKey, capturedVersion string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedKey = r.Header.Get("x-api-key")
		capturedVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "generated argument"}},
		})
	}))
	defer ts.Close()

	reg := NewRegistry(Config{AnthropicBaseURL: ts.URL})
	history := []Turn{
		{Speaker: SpeakerSelf, Text: "my earlier point"},
		{Speaker: SpeakerOther, Text: "opponent rebuttal"},
	}

	text, err := reg.Generate(context.Background(), "claude-3-5-sonnet-20241022",
		"argue well", history, Credentials{"anthropic": "sk-ant-test"})
	require.NoError(t, err)
	assert.Equal(t, "generated argument", text)

	assert.Equal(t, "sk-ant-test", capturedKey)
	assert.Equal(t, anthropicAPIVersion, capturedVersion)
	assert.Equal(t, "claude-3-5-sonnet-20241022", captured.Model)
	assert.Equal(t, "argue well", captured.System)
	assert.Equal(t, maxTokens, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "assistant", captured.Messages[0].Role)
	assert.Equal(t, "my earlier point", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestAnthropicBackendEmptyHistory(t *testing.T) {
	var captured anthropicRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "opening"}},
		})
	}))
	defer ts.Close()

	reg := NewRegistry(Config{AnthropicBaseURL: ts.URL})
	_, err := reg.Generate(context.Background(), "claude-3-5-sonnet-20241022",
		"argue well", nil, Credentials{"anthropic": "k"})
	require.NoError(t, err)

	// The API rejects empty message lists, so the backend injects a cue turn
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, openingCue, captured.Messages[0].Content)
}

func TestOpenAIBackend(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "gpt answer"}},
			},
		})
	}))
	defer ts.Close()

	reg := NewRegistry(Config{OpenAIBaseURL: ts.URL + "/v1"})
	history := []Turn{
		{Speaker: SpeakerOther, Text: "their argument"},
		{Speaker: SpeakerSelf, Text: "my answer"},
	}

	text, err := reg.Generate(context.Background(), "gpt-4o", "be persuasive", history,
		Credentials{"openai": "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "gpt answer", text)

	assert.Equal(t, "gpt-4o", captured.Model)
	assert.Equal(t, maxTokens, captured.MaxTokens)
	require.Len(t, captured.Messages, 3)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "be persuasive", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
}

func TestGeminiBackend(t *testing.T) {
	var captured geminiRequest
	var capturedPath, capturedKey string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "gemini answer"}},
				}},
			},
		})
	}))
	defer ts.Close()

	reg := NewRegistry(Config{GeminiBaseURL: ts.URL})
	history := []Turn{
		{Speaker: SpeakerSelf, Text: "my point"},
		{Speaker: SpeakerOther, Text: "their point"},
	}

	text, err := reg.Generate(context.Background(), "gemini-1.5-pro", "judge fairly", history,
		Credentials{"gemini": "g-key"})
	require.NoError(t, err)
	assert.Equal(t, "gemini answer", text)

	assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", capturedPath)
	assert.Equal(t, "g-key", capturedKey)
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "judge fairly", captured.SystemInstruction.Parts[0].Text)
	require.Len(t, captured.Contents, 2)
	assert.Equal(t, "model", captured.Contents[0].Role)
	assert.Equal(t, "user", captured.Contents[1].Role)
}

func TestGenerateBackendFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"rate_limit_error"}}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	reg := NewRegistry(Config{AnthropicBaseURL: ts.URL})
	_, err := reg.Generate(context.Background(), "claude-3-5-sonnet-20241022", "system", nil,
		Credentials{"anthropic": "k"})

	require.Error(t, err)
	assert.True(t, IsProviderError(err))
	assert.Contains(t, err.Error(), "anthropic")
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateEmptyCompletion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"content": []interface{}{}})
	}))
	defer ts.Close()

	reg := NewRegistry(Config{AnthropicBaseURL: ts.URL})
	_, err := reg.Generate(context.Background(), "claude-3-5-sonnet-20241022", "system", nil,
		Credentials{"anthropic": "k"})

	require.Error(t, err)
	assert.True(t, IsProviderError(err))
	assert.Contains(t, err.Error(), "no content blocks")
}
