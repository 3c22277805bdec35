// Package handlers is the HTTP transport for the social system. Routes are
// scoped to a game; each request holds that game's lock for its duration
// and mutating requests save the game before responding.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Miltondz/one-page-rpg-sub001/internal/games"
	"github.com/Miltondz/one-page-rpg-sub001/internal/logger"
	"github.com/Miltondz/one-page-rpg-sub001/internal/metrics"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Server holds what the game-scoped handlers share.
type Server struct {
	registry *games.Registry
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewServer returns a Server. m may be nil.
func NewServer(registry *games.Registry, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		registry: registry,
		metrics:  m,
		logger:   logger,
	}
}

// gameHandler runs with the game locked.
type gameHandler func(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger)

// withGame resolves {gameID}, locks the game and calls next.
func (s *Server) withGame(next gameHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := chi.URLParam(r, "gameID")
		id, err := uuid.Parse(idParam)
		if err != nil {
			s.logger.Warn("Invalid game ID", "game_id", idParam, "error", err)
			writeError(w, s.logger, http.StatusBadRequest, "Invalid game ID")
			return
		}

		g, err := s.registry.Get(r.Context(), id)
		if err != nil {
			s.logger.Error("Failed to load game", "game_id", id, "error", err)
			writeError(w, s.logger, http.StatusInternalServerError, "Failed to load game")
			return
		}
		if g == nil {
			writeError(w, s.logger, http.StatusNotFound, "Game not found")
			return
		}
		if s.metrics != nil {
			s.metrics.SetActiveGames(s.registry.Len())
		}

		g.Lock()
		defer g.Unlock()
		// Deleted while this request waited for the lock.
		if g.Deleted() {
			writeError(w, s.logger, http.StatusNotFound, "Game not found")
			return
		}
		next(w, r, g, logger.WithGame(s.logger, id.String()))
	}
}

// save persists g and writes a 404 if the game was deleted, 500 on any
// other failure. Returns false if the
// response has already been written.
func (s *Server) save(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) bool {
	if err := s.registry.Save(r.Context(), g); err != nil {
		if errors.Is(err, games.ErrGameDeleted) {
			writeError(w, log, http.StatusNotFound, "Game not found")
			return false
		}
		log.Error("Failed to save game", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to save game")
		return false
	}
	return true
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, message string) {
	writeJSON(w, log, status, ErrorResponse{Error: message})
}
