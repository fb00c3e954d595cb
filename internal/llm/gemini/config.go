package gemini

import (
	"errors"
	"os"
)

const defaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint, e.g. for a proxy. Empty uses the SDK default.
	BaseURL string
}

// NewConfig reads GEMINI_API_KEY, GEMINI_MODEL and GEMINI_BASE_URL.
func NewConfig() (*Config, error) {
	cfg := &Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   os.Getenv("GEMINI_MODEL"),
		BaseURL: os.Getenv("GEMINI_BASE_URL"),
	}
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return cfg, nil
}
