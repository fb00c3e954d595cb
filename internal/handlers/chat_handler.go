package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/middleware"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/utils"
)

type Chatter interface {
	Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
}

type ChatHandler struct {
	chatter Chatter
	logger  *zap.Logger
}

func NewChatHandler(chatter Chatter, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatter: chatter, logger: logger}
}

// ChatHandler has no fallback reply: a failed provider call is a 502.
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ChatRequest](r)

	resp, err := h.chatter.Chat(r.Context(), req)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Chat reply generated",
		zap.String("request_id", resp.RequestID),
		zap.String("provider", resp.Provider),
		zap.Int("history", len(req.History)))
	utils.JSON(w, http.StatusOK, resp)
}
