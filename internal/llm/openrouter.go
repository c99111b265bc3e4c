package llm

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openrouterModels maps friendly names to OpenRouter model slugs.
var openrouterModels = map[string]string{
	"gemini-flash": "google/gemini-2.0-flash-001",
	"gpt-4o-mini":  "openai/gpt-4o-mini",
}

// OpenRouterProvider wraps OpenAIProvider with OpenRouter-specific defaults.
// OpenRouter exposes an OpenAI-compatible API, so the underlying SDK is reused.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errNoCredential(NameOpenRouter)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner := newOpenAICompatible(NameOpenRouter, OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}, openrouterModels)

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
