package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Miltondz/one-page-rpg-sub001/internal/games"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
)

// NPCResponse is an NPC's memory plus the text it contributes to prompts.
type NPCResponse struct {
	Memory  *memory.NPCMemory `json:"memory"`
	Context string            `json:"context"`
}

type PromiseRequest struct {
	NPCID       string `json:"npc_id"`
	Description string `json:"description"`
}

type FulfillResponse struct {
	Fulfilled bool              `json:"fulfilled"`
	Memory    *memory.NPCMemory `json:"memory"`
}

type SecretRequest struct {
	NPCID  string `json:"npc_id"`
	Secret string `json:"secret"`
}

type SecretResponse struct {
	Shared bool              `json:"shared"` // false if the NPC already knew
	Memory *memory.NPCMemory `json:"memory"`
}

type FavorRequest struct {
	NPCID      string `json:"npc_id"`
	PlayerOwes bool   `json:"player_owes"`
}

func (s *Server) meetNPC(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	var npc actor.NPC
	if err := decodeJSON(r, &npc); err != nil {
		log.Warn("Invalid NPC body", "error", err)
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}
	if err := npc.Validate(); err != nil {
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}

	g.Social().MeetNPC(npc)
	if !s.save(w, r, g, log) {
		return
	}
	s.writeNPC(w, g, log, npc.ID, http.StatusCreated)
}

func (s *Server) getNPC(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	s.writeNPC(w, g, log, chi.URLParam(r, "npcID"), http.StatusOK)
}

func (s *Server) recordInteraction(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	var in memory.Interaction
	if err := decodeJSON(r, &in); err != nil {
		log.Warn("Invalid interaction body", "error", err)
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}
	if !in.Type.Valid() {
		writeError(w, log, http.StatusBadRequest, "Unknown interaction type: "+string(in.Type))
		return
	}
	switch in.Outcome {
	case "", memory.OutcomePositive, memory.OutcomeNegative, memory.OutcomeNeutral:
	default:
		writeError(w, log, http.StatusBadRequest, "Unknown outcome: "+string(in.Outcome))
		return
	}
	if !s.requireNPC(w, g, log, in.NPCID) {
		return
	}

	g.Social().RecordInteraction(in)
	if !s.save(w, r, g, log) {
		return
	}
	s.writeNPC(w, g, log, in.NPCID, http.StatusOK)
}

func (s *Server) makePromise(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	var req PromiseRequest
	if !s.decodeNPCRequest(w, r, g, log, &req, &req.NPCID) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, log, http.StatusBadRequest, "Promise description is required")
		return
	}

	g.Social().MakePromise(req.NPCID, req.Description)
	if !s.save(w, r, g, log) {
		return
	}
	s.writeNPC(w, g, log, req.NPCID, http.StatusCreated)
}

func (s *Server) fulfillPromise(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	var req PromiseRequest
	if !s.decodeNPCRequest(w, r, g, log, &req, &req.NPCID) {
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		writeError(w, log, http.StatusBadRequest, "Promise description is required")
		return
	}

	fulfilled := g.Social().FulfillPromise(req.NPCID, req.Description)
	if fulfilled && !s.save(w, r, g, log) {
		return
	}
	mem, _ := g.Social().Memory(req.NPCID)
	writeJSON(w, log, http.StatusOK, FulfillResponse{Fulfilled: fulfilled, Memory: mem})
}

func (s *Server) shareSecret(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	var req SecretRequest
	if !s.decodeNPCRequest(w, r, g, log, &req, &req.NPCID) {
		return
	}
	if strings.TrimSpace(req.Secret) == "" {
		writeError(w, log, http.StatusBadRequest, "Secret is required")
		return
	}

	shared := g.Social().ShareSecret(req.NPCID, req.Secret)
	if shared && !s.save(w, r, g, log) {
		return
	}
	mem, _ := g.Social().Memory(req.NPCID)
	writeJSON(w, log, http.StatusOK, SecretResponse{Shared: shared, Memory: mem})
}

func (s *Server) registerFavor(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	var req FavorRequest
	if !s.decodeNPCRequest(w, r, g, log, &req, &req.NPCID) {
		return
	}

	g.Social().RegisterFavor(req.NPCID, req.PlayerOwes)
	if !s.save(w, r, g, log) {
		return
	}
	s.writeNPC(w, g, log, req.NPCID, http.StatusOK)
}

// decodeNPCRequest decodes the body into v and checks that the NPC named by
// *npcID has been met.
func (s *Server) decodeNPCRequest(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger, v any, npcID *string) bool {
	if err := decodeJSON(r, v); err != nil {
		log.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, log, http.StatusBadRequest, err.Error())
		return false
	}
	return s.requireNPC(w, g, log, *npcID)
}

// The core ignores unknown NPCs; the API reports them instead.
func (s *Server) requireNPC(w http.ResponseWriter, g *games.Game, log *slog.Logger, npcID string) bool {
	if npcID == "" {
		writeError(w, log, http.StatusBadRequest, "npc_id is required")
		return false
	}
	if _, ok := g.Social().Memory(npcID); !ok {
		log.Warn("NPC not met", "npc_id", npcID)
		writeError(w, log, http.StatusNotFound, "NPC not found")
		return false
	}
	return true
}

func (s *Server) writeNPC(w http.ResponseWriter, g *games.Game, log *slog.Logger, npcID string, status int) {
	mem, ok := g.Social().Memory(npcID)
	if !ok {
		writeError(w, log, http.StatusNotFound, "NPC not found")
		return
	}
	writeJSON(w, log, status, NPCResponse{Memory: mem, Context: g.Social().MemoryContext(npcID)})
}
