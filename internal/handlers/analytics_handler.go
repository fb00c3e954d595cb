package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/middleware"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/store"
	"github.com/sithumSoft/MockMate/internal/utils"
)

type AnalyticsHandler struct {
	store  InterviewStore
	logger *zap.Logger
}

func NewAnalyticsHandler(st InterviewStore, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{store: st, logger: logger}
}

func (h *AnalyticsHandler) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.store.ListAll(r.Context(), store.ListOptions{
		UserID: middleware.UserIDFromContext(r.Context()),
		Status: models.StatusCompleted,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, interview.BuildAnalytics(interviews))
}
