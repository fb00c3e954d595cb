package groq

import (
	"errors"
	"os"
	"strconv"
)

const (
	defaultModel   = "llama-3.3-70b-versatile"
	defaultBaseURL = "https://api.groq.com/openai/v1"
)

// holds Groq-specific configuration
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GROQ_API_KEY environment variable is required")
	}

	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = defaultModel
	}

	baseURL := os.Getenv("GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	retries := 2
	if raw := os.Getenv("GROQ_MAX_RETRIES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, errors.New("GROQ_MAX_RETRIES must be a non-negative integer")
		}
		retries = n
	}

	return &Config{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    baseURL,
		MaxRetries: retries,
	}, nil
}
