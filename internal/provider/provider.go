// Package provider normalizes the heterogeneous LLM backend APIs into one
// generate contract. The registry resolves a model identifier to its backend
// family via static membership lookup, translates the debate-domain speaker
// roles into that backend's own role vocabulary, and returns the first
// generated completion. Credentials are supplied per request and never
// stored. This layer does not retry.
package provider

import (
	"context"
	"net/http"
	"time"
)

// Family identifies a backend LLM provider. Each family has a disjoint
// model-identifier namespace and its own request format.
type Family string

const (
	FamilyAnthropic Family = "anthropic"
	FamilyOpenAI    Family = "openai"
	FamilyGemini    Family = "gemini"
)

// Speaker is the domain-neutral role of a history turn, expressed from the
// calling agent's own point of view: its prior utterances are "self", the
// opponent's are "other". Each backend maps these onto its assistant/user
// vocabulary.
type Speaker string

const (
	SpeakerSelf  Speaker = "self"
	SpeakerOther Speaker = "other"
)

// Turn is one entry of the conversation history handed to a backend.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Credentials maps a backend family name to its API key. Supplied fresh on
// every call; the registry holds no secrets.
type Credentials map[string]string

// maxTokens bounds every completion request.
const maxTokens = 2048

// DefaultTimeout is applied to backend HTTP calls when the config does not
// set one. Unbounded external calls are an operational risk.
const DefaultTimeout = 60 * time.Second

// Static model catalog. Model names are disjoint across families; membership
// here decides which backend handles a request.
var (
	anthropicModels = []string{"claude-sonnet-4-5-20250929", "claude-3-5-sonnet-20241022"}
	openaiModels    = []string{"gpt-4o", "gpt-4-turbo"}
	geminiModels    = []string{"gemini-2.0-flash-exp", "gemini-1.5-pro"}
)

// AvailableModels returns the static model identifier sets grouped by family.
func AvailableModels() map[string][]string {
	return map[string][]string{
		string(FamilyAnthropic): append([]string(nil), anthropicModels...),
		string(FamilyOpenAI):    append([]string(nil), openaiModels...),
		string(FamilyGemini):    append([]string(nil), geminiModels...),
	}
}

// FamilyForModel resolves which backend family handles a model identifier.
// Returns an UnknownModelError for identifiers outside the catalog.
func FamilyForModel(model string) (Family, error) {
	for family, models := range map[Family][]string{
		FamilyAnthropic: anthropicModels,
		FamilyOpenAI:    openaiModels,
		FamilyGemini:    geminiModels,
	} {
		for _, m := range models {
			if m == model {
				return family, nil
			}
		}
	}
	return "", &UnknownModelError{Model: model}
}

// backend is the per-family generate implementation. Each backend owns its
// own request/response marshaling, invisible to callers of the registry.
type backend interface {
	generate(ctx context.Context, model, systemPrompt string, history []Turn, apiKey string) (string, error)
}

// Config tunes the registry. Base URL overrides exist for tests; zero values
// mean production endpoints and DefaultTimeout.
type Config struct {
	Timeout          time.Duration
	AnthropicBaseURL string
	OpenAIBaseURL    string
	GeminiBaseURL    string
}

// Registry dispatches generate calls to the backend family owning the
// requested model. Safe for concurrent use.
type Registry struct {
	backends map[Family]backend
}

// NewRegistry creates a registry with one backend per family, sharing a
// single timeout-bounded HTTP client.
func NewRegistry(cfg Config) *Registry {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &Registry{
		backends: map[Family]backend{
			FamilyAnthropic: newAnthropicBackend(cfg.AnthropicBaseURL, httpClient),
			FamilyOpenAI:    newOpenAIBackend(cfg.OpenAIBaseURL, httpClient),
			FamilyGemini:    newGeminiBackend(cfg.GeminiBaseURL, httpClient),
		},
	}
}

// Generate resolves the backend for model, checks credentials, and returns
// the generated text. Fails with UnknownModelError before any network I/O,
// with MissingCredentialError when the resolved family has no key in creds,
// and with ProviderError when the backend call itself fails.
func (r *Registry) Generate(ctx context.Context, model, systemPrompt string, history []Turn, creds Credentials) (string, error) {
	family, err := FamilyForModel(model)
	if err != nil {
		return "", err
	}

	apiKey := creds[string(family)]
	if apiKey == "" {
		return "", &MissingCredentialError{Family: family}
	}

	text, err := r.backends[family].generate(ctx, model, systemPrompt, history, apiKey)
	if err != nil {
		return "", &ProviderError{Family: family, Err: err}
	}

	return text, nil
}
