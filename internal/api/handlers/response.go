package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kazihub/Homeservicemarketplace/backend/internal/infrastructure/observability"
	apperrors "github.com/kazihub/Homeservicemarketplace/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondWithAppError maps typed application errors to HTTP statuses.
// Internal detail is logged, never returned to the caller.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
			return
		}
	}

	observability.LoggerFromContext(r.Context()).Error().Err(err).
		Str("path", r.URL.Path).
		Msg("request failed")
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
