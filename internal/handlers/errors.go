package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"fallacyfinder/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, userMsg string, err error) {
	if err != nil {
		logger.Error(userMsg, zap.Int("status", status), zap.Error(err))
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps domain errors to HTTP statuses. Anything unrecognised is
// logged and reported as a generic internal error.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr models.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, logger, http.StatusBadRequest, verr.Error(), nil)
	case errors.Is(err, models.ErrNoContentAvailable):
		respondWithError(w, logger, http.StatusBadRequest, models.ErrNoContentAvailable.Error(), nil)
	case errors.Is(err, models.ErrSessionNotFound):
		respondWithError(w, logger, http.StatusNotFound, models.ErrSessionNotFound.Error(), nil)
	case errors.Is(err, models.ErrSessionAlreadyCompleted):
		respondWithError(w, logger, http.StatusConflict, models.ErrSessionAlreadyCompleted.Error(), nil)
	default:
		respondWithError(w, logger, http.StatusInternalServerError, ErrInternalServerError, err)
	}
}
