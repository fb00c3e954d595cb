package groq

import "testing"

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "key")
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("GROQ_BASE_URL", "")
	t.Setenv("GROQ_MAX_RETRIES", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Model != "llama-3.3-70b-versatile" || cfg.BaseURL != "https://api.groq.com/openai/v1" || cfg.MaxRetries != 2 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "key")
	t.Setenv("GROQ_MODEL", "mixtral")
	t.Setenv("GROQ_BASE_URL", "http://localhost:9999")
	t.Setenv("GROQ_MAX_RETRIES", "0")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Model != "mixtral" || cfg.BaseURL != "http://localhost:9999" || cfg.MaxRetries != 0 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewConfigErrors(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error when API key missing")
	}

	t.Setenv("GROQ_API_KEY", "key")
	t.Setenv("GROQ_MAX_RETRIES", "many")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error for invalid retry count")
	}
}
