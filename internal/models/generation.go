package models

// GenerationRequest is a provider-agnostic LLM call.
// Prompt is sent as the final user turn after History.
type GenerationRequest struct {
	RequestID   string
	System      string
	History     []ChatMessage
	Prompt      string
	Temperature float64
	MaxTokens   int
}

type GenerationResponse struct {
	Content   string             `json:"content"`
	RequestID string             `json:"request_id"`
	Metadata  GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}
