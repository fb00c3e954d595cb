package llm

import (
	"context"
	"errors"

	"github.com/sithumSoft/MockMate/internal/models"
)

// defines the interface for LLM providers
type Provider interface {
	GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error)
	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes shared by every provider
const (
	ErrCodeAPIKey          = "invalid_api_key"
	ErrCodeRateLimit       = "rate_limit_exceeded"
	ErrCodeServiceDown     = "service_unavailable"
	ErrCodeInvalidInput    = "invalid_input"
	ErrCodeInvalidResponse = "invalid_response"
	ErrCodeTimeout         = "timeout"
)

// ErrorCode returns the provider error code carried by err, or "".
func ErrorCode(err error) string {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Code
	}
	return ""
}
