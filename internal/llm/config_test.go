package llm

import (
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANEES_PRIMARY_PROVIDER", "ANEES_FALLBACK_PROVIDER",
		"ANEES_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY", "ANEES_ANTHROPIC_MODEL",
		"ANEES_OPENAI_API_KEY", "OPENAI_API_KEY", "ANEES_OPENAI_MODEL", "OPENAI_MODEL", "ANEES_OPENAI_BASE_URL",
		"ANEES_GEMINI_API_KEY", "GEMINI_API_KEY", "ANEES_GEMINI_MODEL",
		"ANEES_OPENROUTER_API_KEY", "OPENROUTER_API_KEY", "ANEES_OPENROUTER_MODEL",
		"ANEES_LLM_MAX_ATTEMPTS", "ANEES_LLM_RATE_PER_MINUTE", "ANEES_LLM_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearLLMEnv(t)

	cfg := ConfigFromEnv()
	if cfg.Primary != NameOpenAI || cfg.Fallback != NameGemini {
		t.Errorf("providers = %q/%q, want openai/gemini", cfg.Primary, cfg.Fallback)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("openai model = %q", cfg.OpenAI.Model)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("max attempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.HasCredential(NameOpenAI) || cfg.HasCredential(NameGemini) {
		t.Error("expected no credentials")
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ANEES_PRIMARY_PROVIDER", "Gemini")
	t.Setenv("ANEES_FALLBACK_PROVIDER", "none")
	t.Setenv("GEMINI_API_KEY", "g-standard")
	t.Setenv("ANEES_GEMINI_API_KEY", "g-prefixed")
	t.Setenv("OPENAI_API_KEY", "o-standard")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("ANEES_LLM_MAX_ATTEMPTS", "5")
	t.Setenv("ANEES_LLM_RATE_PER_MINUTE", "30")
	t.Setenv("ANEES_LLM_TIMEOUT", "45s")

	cfg := ConfigFromEnv()
	if cfg.Primary != NameGemini {
		t.Errorf("primary = %q, want gemini", cfg.Primary)
	}
	if cfg.Fallback != "" {
		t.Errorf("fallback = %q, want disabled", cfg.Fallback)
	}
	if cfg.Gemini.APIKey != "g-prefixed" {
		t.Errorf("gemini key = %q, want prefixed variable to win", cfg.Gemini.APIKey)
	}
	if cfg.OpenAI.APIKey != "o-standard" || cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.RateLimitPerMinute != 30 || cfg.Timeout != 45*time.Second {
		t.Errorf("limits = %d/%d/%v", cfg.Retry.MaxAttempts, cfg.RateLimitPerMinute, cfg.Timeout)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no fallback", func(c *Config) { c.Fallback = "" }, false},
		{"mock primary", func(c *Config) { c.Primary = NameMock }, false},
		{"unknown primary", func(c *Config) { c.Primary = "bard" }, true},
		{"unknown fallback", func(c *Config) { c.Fallback = "bard" }, true},
		{"fallback equals primary", func(c *Config) { c.Fallback = c.Primary }, true},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
	}{
		{"gpt-4o-mini", true},
		{"openai/gpt-4o-mini", true},
		{"google/gemini-2.0-flash-001", true},
		{"unknown-model", false},
	}
	for _, tt := range tests {
		if got := LookupCost(tt.model); (got != nil) != tt.found {
			t.Errorf("LookupCost(%q) = %v, want found=%v", tt.model, got, tt.found)
		}
	}

	c := LookupCost("gpt-4o-mini")
	if got := c.Cost(1_000_000, 1_000_000); got != 0.75 {
		t.Errorf("cost = %v, want 0.75", got)
	}
}
