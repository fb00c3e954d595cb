package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sithumSoft/MockMate/internal/llm"
	"github.com/sithumSoft/MockMate/internal/prompts"
	"github.com/sithumSoft/MockMate/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	database      Pinger
	redis         Pinger
}

// NewHealthHandler builds the health endpoints; a nil redis skips that check.
func NewHealthHandler(provider llm.Provider, promptManager prompts.PromptProvider, database, redis Pinger) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		database:      database,
		redis:         redis,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "mockmate",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]ReadinessCheck)
	allChecksPass := true
	record := func(name string, err error, failMsg string) {
		if err != nil {
			checks[name] = ReadinessCheck{Status: "failed", Message: failMsg + ": " + err.Error()}
			allChecksPass = false
			return
		}
		checks[name] = ReadinessCheck{Status: "ok"}
	}

	if handler.provider == nil {
		checks["provider"] = ReadinessCheck{Status: "failed", Message: "AI provider not initialized"}
		allChecksPass = false
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok", Message: handler.provider.GetProviderName()}
	}

	switch {
	case handler.promptManager == nil:
		checks["prompt_manager"] = ReadinessCheck{Status: "failed", Message: "Prompt manager not initialized"}
		allChecksPass = false
	case len(handler.promptManager.GetTemplates()) == 0:
		checks["prompt_manager"] = ReadinessCheck{Status: "failed", Message: "No prompt templates loaded"}
		allChecksPass = false
	default:
		checks["prompt_manager"] = ReadinessCheck{Status: "ok"}
	}

	if handler.database == nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: "Database not initialized"}
		allChecksPass = false
	} else {
		record("database", handler.database.Ping(ctx), "Database unreachable")
	}

	if handler.redis != nil {
		record("redis", handler.redis.Ping(ctx), "Redis unreachable")
	}

	response := ReadinessResponse{
		Service: "mockmate",
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
