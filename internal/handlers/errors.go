package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/utils"
)

// writeDomainError maps controller and store errors onto HTTP responses.
func writeDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		notFound *models.NotFoundError
		invalid  *models.InvalidStateError
		collab   *models.CollaboratorError
		storage  *models.StorageError
	)

	switch {
	case errors.As(err, &notFound):
		utils.WriteError(w, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &invalid):
		code := "invalid_state"
		if invalid.Reason == models.ErrBusy {
			code = "busy"
		}
		utils.WriteError(w, http.StatusConflict, code, invalid.Error())
	case errors.Is(err, interview.ErrInvalidInput):
		utils.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.As(err, &collab):
		logger.Error("Collaborator failed", zap.String("kind", string(collab.Kind)), zap.Error(err))
		utils.WriteError(w, http.StatusBadGateway, string(collab.Kind)+"_failed", "The AI service is unavailable, please try again")
	case errors.As(err, &storage):
		logger.Error("Storage failure", zap.String("op", storage.Op), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "storage_error", "Failed to access interview storage")
	default:
		logger.Error("Unhandled error", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
