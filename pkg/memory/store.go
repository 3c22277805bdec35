package memory

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
)

// Store owns the NPCMemory map for one save. It is not safe for concurrent
// use; callers serialize access per save.
type Store struct {
	memories map[string]*NPCMemory
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates an empty memory store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		memories: make(map[string]*NPCMemory),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source, used by tests for stable timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

// MeetNPC creates a memory on first meeting. Meeting a known NPC again only
// refreshes LastSeenAt.
func (s *Store) MeetNPC(npc actor.NPC) {
	if err := npc.Validate(); err != nil {
		s.logger.Warn("Cannot meet NPC", "error", err)
		return
	}

	now := s.now()
	if mem, ok := s.memories[npc.ID]; ok {
		mem.LastSeenAt = now
		return
	}

	s.memories[npc.ID] = &NPCMemory{
		NPCID:        npc.ID,
		NPCName:      npc.DisplayName(),
		FirstMetAt:   now,
		LastSeenAt:   now,
		Relationship: 0,
		Trust:        DefaultTrust,
		Mood:         DeriveMood(0, DefaultTrust),
		Interactions: make([]Interaction, 0, MaxInteractions),
		Promises:     make([]Promise, 0),
		Secrets:      make([]string, 0),
		Tags:         make([]string, 0),
	}
	s.logger.Debug("Met new NPC", "npc_id", npc.ID, "npc_name", npc.DisplayName())
}

// RecordInteraction appends an interaction to the NPC's history and updates
// the derived state. NPCs must be met first; unknown ids are ignored.
func (s *Store) RecordInteraction(in Interaction) {
	mem, ok := s.memories[in.NPCID]
	if !ok {
		s.logger.Warn("Interaction recorded for unknown NPC", "npc_id", in.NPCID, "type", in.Type)
		return
	}

	if in.Timestamp.IsZero() {
		in.Timestamp = s.now()
	}
	in.EmotionalImpact = clamp(in.EmotionalImpact, MinImpact, MaxImpact)
	if in.Outcome == "" {
		in.Outcome = OutcomeNeutral
	}

	mem.Interactions = append(mem.Interactions, in)
	if over := len(mem.Interactions) - MaxInteractions; over > 0 {
		mem.Interactions = append(mem.Interactions[:0], mem.Interactions[over:]...)
	}
	mem.TotalInteractions++
	if in.Timestamp.After(mem.LastSeenAt) {
		mem.LastSeenAt = in.Timestamp
	}

	mem.Relationship = clamp(mem.Relationship+in.EmotionalImpact, MinRelationship, MaxRelationship)
	switch in.Outcome {
	case OutcomePositive:
		mem.Trust = clamp(mem.Trust+5, MinTrust, MaxTrust)
	case OutcomeNegative:
		mem.Trust = clamp(mem.Trust-10, MinTrust, MaxTrust)
	}
	mem.Mood = DeriveMood(mem.Relationship, mem.Trust)

	s.autoTag(mem, in)

	s.logger.Debug("Recorded interaction",
		"npc_id", in.NPCID,
		"type", in.Type,
		"outcome", in.Outcome,
		"relationship", mem.Relationship,
		"trust", mem.Trust,
		"mood", mem.Mood)
}

func (s *Store) autoTag(mem *NPCMemory, in Interaction) {
	if in.Type == InteractionBetrayal {
		addToSet(&mem.Tags, TagBetrayed)
	}
	if in.EmotionalImpact >= 8 && in.Outcome == OutcomePositive {
		addToSet(&mem.Tags, TagSavedLife)
	}
	if mem.TotalInteractions > 10 && mem.Relationship > 60 {
		addToSet(&mem.Tags, TagCloseFriend)
	}
}

// MakePromise records a new unfulfilled promise to the NPC.
func (s *Store) MakePromise(npcID, description string) {
	mem, ok := s.memories[npcID]
	if !ok {
		s.logger.Warn("Promise made to unknown NPC", "npc_id", npcID)
		return
	}
	mem.Promises = append(mem.Promises, Promise{
		Description: description,
		Timestamp:   s.now(),
	})
}

// FulfillPromise marks the first unfulfilled promise whose description
// contains substr (case-insensitive) as fulfilled and rewards the player.
// A blank substr matches nothing. Returns false when nothing matched.
func (s *Store) FulfillPromise(npcID, substr string) bool {
	mem, ok := s.memories[npcID]
	if !ok {
		s.logger.Warn("Promise fulfilled for unknown NPC", "npc_id", npcID)
		return false
	}
	if strings.TrimSpace(substr) == "" {
		return false
	}

	fold := cases.Fold()
	needle := fold.String(substr)
	for i := range mem.Promises {
		p := &mem.Promises[i]
		if p.Fulfilled || !strings.Contains(fold.String(p.Description), needle) {
			continue
		}
		p.Fulfilled = true
		mem.Relationship = clamp(mem.Relationship+10, MinRelationship, MaxRelationship)
		mem.Trust = clamp(mem.Trust+15, MinTrust, MaxTrust)
		mem.Mood = DeriveMood(mem.Relationship, mem.Trust)
		s.logger.Debug("Promise fulfilled", "npc_id", npcID, "promise", p.Description)
		return true
	}
	return false
}

// ShareSecret adds a secret to the NPC's memory. Trust grows only the first
// time a given secret is shared. Returns true when the secret was new.
func (s *Store) ShareSecret(npcID, secret string) bool {
	mem, ok := s.memories[npcID]
	if !ok {
		s.logger.Warn("Secret shared with unknown NPC", "npc_id", npcID)
		return false
	}
	if !addToSet(&mem.Secrets, secret) {
		return false
	}
	mem.Trust = clamp(mem.Trust+5, MinTrust, MaxTrust)
	mem.Mood = DeriveMood(mem.Relationship, mem.Trust)
	return true
}

// RegisterFavor moves the favor balance: +1 when the player owes the NPC,
// -1 when the NPC owes the player.
func (s *Store) RegisterFavor(npcID string, playerOwes bool) {
	mem, ok := s.memories[npcID]
	if !ok {
		s.logger.Warn("Favor registered for unknown NPC", "npc_id", npcID)
		return
	}
	if playerOwes {
		mem.OwedFavors++
	} else {
		mem.OwedFavors--
	}
}

// GetMemory returns a copy of the NPC's memory.
func (s *Store) GetMemory(npcID string) (*NPCMemory, bool) {
	mem, ok := s.memories[npcID]
	if !ok {
		return nil, false
	}
	return mem.Clone(), true
}

// GetAllMemories returns copies of every memory keyed by NPC id.
func (s *Store) GetAllMemories() map[string]*NPCMemory {
	all := make(map[string]*NPCMemory, len(s.memories))
	for id, mem := range s.memories {
		all[id] = mem.Clone()
	}
	return all
}

// Len returns the number of NPCs the player has met.
func (s *Store) Len() int {
	return len(s.memories)
}

func addToSet(set *[]string, v string) bool {
	for _, existing := range *set {
		if existing == v {
			return false
		}
	}
	*set = append(*set, v)
	return true
}
