package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted in configuration.
const (
	NameGemini     = "gemini"
	NameOpenAI     = "openai"
	NameAnthropic  = "anthropic"
	NameOpenRouter = "openrouter"
	NameMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Primary is tried first for every call.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Primary string

	// Fallback is tried when Primary fails. Empty disables failover.
	Fallback string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// RateLimitPerMinute caps calls per provider. 0 disables limiting.
	RateLimitPerMinute int

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 30s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Used by tests and proxies.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional. Used by tests and proxies.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-001"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// RetryableStatuses lists the HTTP statuses treated as transient.
	// Rate limits and network errors without a status always retry.
	RetryableStatuses []int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Primary:  NameOpenAI,
		Fallback: NameGemini,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-001",
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			InitialWait:       1 * time.Second,
			MaxWait:           10 * time.Second,
			Multiplier:        2.0,
			RetryableStatuses: []int{429, 503},
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. API keys are read from the ANEES_-prefixed
// variable first, then from the provider's conventional variable.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("ANEES_PRIMARY_PROVIDER"); p != "" {
		cfg.Primary = strings.ToLower(p)
	}
	if f, ok := os.LookupEnv("ANEES_FALLBACK_PROVIDER"); ok {
		cfg.Fallback = strings.ToLower(f)
		if cfg.Fallback == "none" {
			cfg.Fallback = ""
		}
	}

	cfg.Anthropic.APIKey = firstEnv("ANEES_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	if m := os.Getenv("ANEES_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	cfg.OpenAI.APIKey = firstEnv("ANEES_OPENAI_API_KEY", "OPENAI_API_KEY")
	if m := firstEnv("ANEES_OPENAI_MODEL", "OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("ANEES_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	cfg.Gemini.APIKey = firstEnv("ANEES_GEMINI_API_KEY", "GEMINI_API_KEY")
	if m := os.Getenv("ANEES_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	cfg.OpenRouter.APIKey = firstEnv("ANEES_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	if m := os.Getenv("ANEES_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if n, err := strconv.Atoi(os.Getenv("ANEES_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	if n, err := strconv.Atoi(os.Getenv("ANEES_LLM_RATE_PER_MINUTE")); err == nil && n >= 0 {
		cfg.RateLimitPerMinute = n
	}
	if d, err := time.ParseDuration(os.Getenv("ANEES_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}

	return cfg
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// HasCredential reports whether the named provider has an API key.
func (c Config) HasCredential(name string) bool {
	switch name {
	case NameAnthropic:
		return c.Anthropic.APIKey != ""
	case NameOpenAI:
		return c.OpenAI.APIKey != ""
	case NameGemini:
		return c.Gemini.APIKey != ""
	case NameOpenRouter:
		return c.OpenRouter.APIKey != ""
	case NameMock:
		return true
	}
	return false
}

// Validate checks that the provider names are known. Missing keys are not
// an error here: an uncredentialed slot fails at call time so the router
// can fall through to the other provider.
func (c Config) Validate() error {
	if !knownProvider(c.Primary) {
		return fmt.Errorf("unknown primary LLM provider: %q", c.Primary)
	}
	if c.Fallback != "" {
		if !knownProvider(c.Fallback) {
			return fmt.Errorf("unknown fallback LLM provider: %q", c.Fallback)
		}
		if c.Fallback == c.Primary {
			return fmt.Errorf("fallback provider must differ from primary (%q)", c.Primary)
		}
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

func knownProvider(name string) bool {
	switch name {
	case NameAnthropic, NameOpenAI, NameGemini, NameOpenRouter, NameMock:
		return true
	}
	return false
}
