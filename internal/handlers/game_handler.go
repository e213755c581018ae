package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"fallacyfinder/internal/service"
)

// GameHandler serves the game's JSON API
type GameHandler struct {
	gameService *service.GameService
	logger      *zap.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logger.Named("GameHandler"),
	}
}

// Register mounts the game routes on mux
func (h *GameHandler) Register(mux *http.ServeMux, mw *Middleware) {
	mux.HandleFunc("POST /api/game/start", mw.RateLimit(h.StartGame))
	mux.HandleFunc("POST /api/game/submit", h.SubmitGame)
	mux.HandleFunc("GET /api/game/fallacies/{difficulty}", h.ListFallacies)
}

// StartGame handles POST /api/game/start
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req service.StartRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.gameService.StartGame(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// SubmitGame handles POST /api/game/submit
func (h *GameHandler) SubmitGame(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.gameService.SubmitGame(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// ListFallacies handles GET /api/game/fallacies/{difficulty}
func (h *GameHandler) ListFallacies(w http.ResponseWriter, r *http.Request) {
	fallacies, err := h.gameService.ListFallacies(r.Context(), r.PathValue("difficulty"))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fallacies)
}

func (h *GameHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Debug("rejecting request body", zap.String("path", r.URL.Path), zap.Error(err))
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, nil)
		return false
	}
	return true
}
