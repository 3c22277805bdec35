package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Miltondz/one-page-rpg-sub001/internal/games"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/dialogue"
)

type OpenDialogueRequest struct {
	NPC   actor.NPC `json:"npc"`
	Scene string    `json:"scene"`
}

type ChoiceRequest struct {
	Choice string `json:"choice"`
}

// DialogueResponse carries the line to present. Dialogue is nil once the
// session has closed.
type DialogueResponse struct {
	SessionID uuid.UUID                   `json:"session_id"`
	State     dialogue.State              `json:"state"`
	Dialogue  *dialogue.GeneratedDialogue `json:"dialogue,omitempty"`
	History   []dialogue.HistoryEntry     `json:"history,omitempty"`
}

func (s *Server) openDialogue(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	var req OpenDialogueRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("Invalid dialogue body", "error", err)
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.NPC.Validate(); err != nil {
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}

	session, greeting, err := g.Social().OpenDialogue(r.Context(), req.NPC, req.Scene)
	if err != nil {
		log.Error("Failed to open dialogue", "npc_id", req.NPC.ID, "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to open dialogue")
		return
	}
	if err := session.Present(); err != nil {
		log.Error("Failed to present greeting", "session_id", session.ID, "error", err)
	}
	// Opening may have met the NPC for the first time.
	if !s.save(w, r, g, log) {
		return
	}

	writeJSON(w, log, http.StatusCreated, DialogueResponse{
		SessionID: session.ID,
		State:     session.State(),
		Dialogue:  &greeting,
	})
}

func (s *Server) getDialogue(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	session, ok := s.session(w, r, g, log)
	if !ok {
		return
	}
	writeJSON(w, log, http.StatusOK, DialogueResponse{
		SessionID: session.ID,
		State:     session.State(),
		Dialogue:  session.Current(),
		History:   session.History(),
	})
}

func (s *Server) endDialogue(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	session, ok := s.session(w, r, g, log)
	if !ok {
		return
	}
	g.Social().EndDialogue(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) chooseResponse(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	session, ok := s.session(w, r, g, log)
	if !ok {
		return
	}

	var req ChoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("Invalid choice body", "error", err)
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Choice) == "" {
		writeError(w, log, http.StatusBadRequest, "Choice is required")
		return
	}

	reply, err := session.Choose(r.Context(), req.Choice)
	if err != nil {
		if errors.Is(err, dialogue.ErrSessionClosed) || errors.Is(err, dialogue.ErrInvalidTransition) {
			writeError(w, log, http.StatusConflict, err.Error())
			return
		}
		log.Error("Failed to apply choice", "session_id", session.ID, "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to apply choice")
		return
	}

	if reply == nil {
		g.Social().EndDialogue(session.ID)
	} else if err := session.Present(); err != nil {
		log.Error("Failed to present reply", "session_id", session.ID, "error", err)
	}
	// The choice was remembered as an interaction.
	if !s.save(w, r, g, log) {
		return
	}

	writeJSON(w, log, http.StatusOK, DialogueResponse{
		SessionID: session.ID,
		State:     session.State(),
		Dialogue:  reply,
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) (*dialogue.Session, bool) {
	idParam := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(idParam)
	if err != nil {
		log.Warn("Invalid session ID", "session_id", idParam, "error", err)
		writeError(w, log, http.StatusBadRequest, "Invalid session ID")
		return nil, false
	}
	session, ok := g.Social().Dialogue(id)
	if !ok {
		writeError(w, log, http.StatusNotFound, "Dialogue not found")
		return nil, false
	}
	return session, true
}
