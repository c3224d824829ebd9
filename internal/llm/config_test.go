package llm

import (
	"testing"
	"time"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("RYLA_LLM_PROVIDER", "gemini")
	t.Setenv("RYLA_GEMINI_API_KEY", "g-key")
	t.Setenv("RYLA_GEMINI_MODEL", "gemini-pro")
	t.Setenv("RYLA_LLM_TIMEOUT", "3s")
	t.Setenv("RYLA_LLM_MAX_ATTEMPTS", "2")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Timeout != 3*time.Second || cfg.Retry.MaxAttempts != 2 {
		t.Fatalf("timeout=%s attempts=%d", cfg.Timeout, cfg.Retry.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestConfigFromEnv_BadValues(t *testing.T) {
	t.Setenv("RYLA_LLM_MAX_ATTEMPTS", "0")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for zero attempts")
	}
}

func TestDefaultConfig_NoRetry(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Retry.MaxAttempts != 1 {
		t.Fatalf("default attempts = %d, want 1", cfg.Retry.MaxAttempts)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("default timeout = %s", cfg.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Provider: "mock"}, false},
		{Config{Provider: "openai"}, true},
		{Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "k"}}, false},
		{Config{Provider: "anthropic"}, true},
		{Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "k"}}, false},
		{Config{Provider: "nope"}, true},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) err = %v, wantErr %v", tt.cfg.Provider, err, tt.wantErr)
		}
		if tt.cfg.HasKey() == tt.wantErr {
			t.Errorf("HasKey(%q) = %v", tt.cfg.Provider, tt.cfg.HasKey())
		}
	}
}
