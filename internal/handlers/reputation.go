package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Miltondz/one-page-rpg-sub001/internal/games"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/reputation"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/social"
)

// maxMagnitude caps an action's multiplier; a betrayal at this scale already
// exceeds the reputation range.
const maxMagnitude = 10

// ReputationRequest applies either a scored action or, when Action is
// empty, a raw change. A zero magnitude counts as 1.
type ReputationRequest struct {
	Faction   reputation.Faction `json:"faction"`
	Action    reputation.Action  `json:"action,omitempty"`
	Magnitude float64            `json:"magnitude,omitempty"`
	Change    int                `json:"change,omitempty"`
}

type ReputationChangeResponse struct {
	Faction  reputation.Faction    `json:"faction"`
	Change   int                   `json:"change"`
	Standing int                   `json:"standing"`
	Tier     string                `json:"tier"`
	All      reputation.Reputation `json:"reputation"`
}

type FactionStanding struct {
	Faction   reputation.Faction   `json:"faction"`
	Name      string               `json:"name"`
	Value     int                  `json:"value"`
	Tier      string               `json:"tier"`
	Attitude  reputation.Attitude  `json:"attitude"`
	Benefits  reputation.Benefits  `json:"benefits"`
	Penalties reputation.Penalties `json:"penalties"`
}

type AttitudeResponse struct {
	NPCID          string                    `json:"npc_id"`
	Attitude       reputation.Attitude       `json:"attitude"`
	PriceModifiers reputation.PriceModifiers `json:"price_modifiers"`
	WillTrade      bool                      `json:"will_trade"`
}

func (s *Server) applyFactionAction(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	var req ReputationRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("Invalid reputation body", "error", err)
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}

	var (
		change int
		err    error
	)
	switch {
	case req.Action != "":
		if !req.Action.Valid() {
			writeError(w, log, http.StatusBadRequest, "Unknown action: "+string(req.Action))
			return
		}
		if req.Magnitude < 0 || req.Magnitude > maxMagnitude {
			writeError(w, log, http.StatusBadRequest, fmt.Sprintf("Magnitude must be between 0 and %d", maxMagnitude))
			return
		}
		magnitude := req.Magnitude
		if magnitude == 0 {
			magnitude = 1
		}
		change, err = g.Social().ApplyFactionAction(req.Faction, req.Action, magnitude)
	default:
		if req.Change < -reputation.MaxReputationChange || req.Change > reputation.MaxReputationChange {
			writeError(w, log, http.StatusBadRequest, fmt.Sprintf("Change must be between -%d and %d", reputation.MaxReputationChange, reputation.MaxReputationChange))
			return
		}
		change = req.Change
		err = g.Social().AdjustReputation(req.Faction, req.Change)
	}
	if err != nil {
		if errors.Is(err, social.ErrUnknownFaction) {
			writeError(w, log, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("Failed to apply reputation change", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to apply reputation change")
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveReputationChange(req.Faction, change)
	}
	if !s.save(w, r, g, log) {
		return
	}

	rep := g.Social().Reputation()
	writeJSON(w, log, http.StatusOK, ReputationChangeResponse{
		Faction:  req.Faction,
		Change:   change,
		Standing: rep[req.Faction],
		Tier:     reputation.DescribeReputation(rep[req.Faction]),
		All:      rep,
	})
}

func (s *Server) getReputation(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
	sc := g.Social()
	table := sc.Engine().Table()
	rep := sc.Reputation()

	standings := make([]FactionStanding, 0, len(rep))
	for _, f := range table.Factions() {
		info, _ := table.Info(f)
		benefits, _ := sc.Benefits(f)
		penalties, _ := sc.Penalties(f)
		standings = append(standings, FactionStanding{
			Faction:   f,
			Name:      info.Name,
			Value:     rep[f],
			Tier:      reputation.DescribeReputation(rep[f]),
			Attitude:  reputation.AttitudeFor(rep[f]),
			Benefits:  benefits,
			Penalties: penalties,
		})
	}
	writeJSON(w, log, http.StatusOK, standings)
}

func (s *Server) attitude(w http.ResponseWriter, r *http.Request, g *games.Game, log *slog.Logger) {
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

	sc := g.Social()
	writeJSON(w, log, http.StatusOK, AttitudeResponse{
		NPCID:          npc.ID,
		Attitude:       sc.Attitude(npc),
		PriceModifiers: sc.PriceModifiers(npc),
		WillTrade:      sc.WillTrade(npc),
	})
}
