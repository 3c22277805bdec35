package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Miltondz/one-page-rpg-sub001/internal/games"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/social"
)

type GameResponse struct {
	ID        uuid.UUID        `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Snapshot  *social.Snapshot `json:"snapshot,omitempty"`
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.registry.Create(r.Context())
	if err != nil {
		s.logger.Error("Failed to create game", "error", err)
		writeError(w, s.logger, http.StatusInternalServerError, "Failed to create game")
		return
	}
	if s.metrics != nil {
		s.metrics.SetActiveGames(s.registry.Len())
	}
	writeJSON(w, s.logger, http.StatusCreated, GameResponse{ID: g.ID, CreatedAt: g.CreatedAt})
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	snap := g.Social().Snapshot()
	writeJSON(w, log, http.StatusOK, GameResponse{ID: g.ID, CreatedAt: g.CreatedAt, Snapshot: &snap})
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "gameID")
	id, err := uuid.Parse(idParam)
	if err != nil {
		s.logger.Warn("Invalid game ID", "game_id", idParam, "error", err)
		writeError(w, s.logger, http.StatusBadRequest, "Invalid game ID")
		return
	}
	if err := s.registry.Delete(r.Context(), id); err != nil {
		s.logger.Error("Failed to delete game", "game_id", id, "error", err)
		writeError(w, s.logger, http.StatusInternalServerError, "Failed to delete game")
		return
	}
	if s.metrics != nil {
		s.metrics.SetActiveGames(s.registry.Len())
	}
	w.WriteHeader(http.StatusNoContent)
}
