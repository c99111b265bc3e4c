package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Nda25/anees/internal/store"
)

// NewProvider creates a single named Provider wrapped with middleware.
// A provider without credentials is still returned: its calls fail with a
// NoCredential ProviderError so a Router can move past it.
func NewProvider(ctx context.Context, name string, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if !cfg.HasCredential(name) {
		return &uncredentialed{name: name}, nil
	}

	var base Provider
	var err error

	switch name {
	case NameAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case NameOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case NameGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case NameOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case NameMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	// Wrap with middleware: caller → retry → rate limit → logging → base
	logged := WithLogging(base, eventRepo, log)
	limited := WithRateLimit(logged, cfg.RateLimitPerMinute, 1)
	retried := WithRetry(limited, cfg.Retry)

	return retried, nil
}

// NewRouterFromConfig builds the primary/fallback Router described by cfg.
func NewRouterFromConfig(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	primary, err := NewProvider(ctx, cfg.Primary, cfg, eventRepo, log)
	if err != nil {
		return nil, err
	}

	var fallback Provider
	if cfg.Fallback != "" {
		fallback, err = NewProvider(ctx, cfg.Fallback, cfg, eventRepo, log)
		if err != nil {
			return nil, err
		}
	}

	return NewRouter(primary, fallback, log), nil
}

// uncredentialed stands in for a configured provider that has no API key.
type uncredentialed struct {
	name string
}

func (u *uncredentialed) Generate(context.Context, Request) (*Response, error) {
	return nil, errNoCredential(u.name)
}

func (u *uncredentialed) Name() string { return u.name }

func (u *uncredentialed) ModelID() string { return "" }
