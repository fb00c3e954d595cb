package groq

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/sithumSoft/MockMate/internal/llm"
	"github.com/sithumSoft/MockMate/internal/models"
)

const providerName = "groq"

func init() {
	llm.RegisterProvider(providerName, func() (llm.Provider, error) {
		config, err := NewConfig()
		if err != nil {
			return nil, err
		}
		return NewClient(config), nil
	})
}

// Client talks to Groq's OpenAI-compatible chat completions endpoint.
type Client struct {
	http   *resty.Client
	config *Config
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

func NewClient(config *Config) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetAuthToken(config.APIKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(config.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{http: httpClient, config: config}
}

func (c *Client) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Prompt is required",
		}
	}

	startTime := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(buildRequest(c.config.Model, req)).
		Post("/chat/completions")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeTimeout, Message: "Request timed out", Err: err}
		}
		return nil, &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeServiceDown, Message: "Request failed", Err: err}
	}

	if resp.IsError() {
		return nil, statusError(resp)
	}

	content := gjson.GetBytes(resp.Body(), "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidResponse,
			Message:  "Empty response generated",
		}
	}

	model := gjson.GetBytes(resp.Body(), "model").String()
	if model == "" {
		model = c.config.Model
	}

	return &models.GenerationResponse{
		Content:   content,
		RequestID: req.RequestID,
		Metadata: models.GenerationMetadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       providerName,
			Model:          model,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func buildRequest(model string, req *models.GenerationRequest) chatRequest {
	messages := make([]chatMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	for _, msg := range req.History {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	return chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}

func statusError(resp *resty.Response) *llm.ProviderError {
	msg := gjson.GetBytes(resp.Body(), "error.message").String()
	if msg == "" {
		msg = resp.Status()
	}

	code := llm.ErrCodeServiceDown
	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		code = llm.ErrCodeAPIKey
	case resp.StatusCode() == http.StatusTooManyRequests:
		code = llm.ErrCodeRateLimit
	case resp.StatusCode() < http.StatusInternalServerError:
		code = llm.ErrCodeInvalidInput
	}
	return &llm.ProviderError{Provider: providerName, Code: code, Message: msg}
}
