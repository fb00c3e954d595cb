package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/models"
)

// JSON writes data as the response body with the given status.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		GetLogger().Warn("Failed to encode response body", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	JSON(w, statusCode, models.ErrorResponse{Code: code, Message: message})
}
