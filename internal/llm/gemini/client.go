package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sithumSoft/MockMate/internal/llm"
	"github.com/sithumSoft/MockMate/internal/models"
)

const providerName = "gemini"

func init() {
	llm.RegisterProvider(providerName, func() (llm.Provider, error) {
		config, err := NewConfig()
		if err != nil {
			return nil, err
		}
		return NewClient(config)
	})
}

// Client talks to the Gemini API through the genai SDK.
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// GenerateContent sends the history followed by the prompt as the final user turn.
func (c *Client) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Prompt is required",
		}
	}

	startTime := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, buildContents(req), buildConfig(req))
	if err != nil {
		return nil, classifyError(err)
	}

	if result == nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidResponse,
			Message:  "No response generated",
		}
	}

	content := result.Text()
	if strings.TrimSpace(content) == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidResponse,
			Message:  "Empty response generated",
		}
	}

	return &models.GenerationResponse{
		Content:   content,
		RequestID: req.RequestID,
		Metadata: models.GenerationMetadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       providerName,
			Model:          c.config.Model,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func buildContents(req *models.GenerationRequest) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		role := genai.Role(genai.RoleUser)
		if msg.Role == models.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))
}

func buildConfig(req *models.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	return cfg
}

func classifyError(err error) *llm.ProviderError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeTimeout, Message: "Request timed out", Err: err}
	case isRateLimitError(err):
		return &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeRateLimit, Message: "Rate limit exceeded", Err: err}
	default:
		return &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeServiceDown, Message: "Failed to generate content", Err: err}
	}
}

// isRateLimitError matches the quota errors Gemini reports as plain API errors.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}
