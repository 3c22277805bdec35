package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Serialize returns a deep copy of every memory keyed by NPC id. The result
// round-trips through Deserialize without loss.
func (s *Store) Serialize() map[string]*NPCMemory {
	return s.GetAllMemories()
}

// Deserialize rebuilds a store from Serialize output. Values are clamped and
// mood is re-derived so a hand-edited save cannot break the store invariants;
// well-formed data comes back unchanged.
func Deserialize(data map[string]*NPCMemory, logger *slog.Logger) *Store {
	s := NewStore(logger)
	for id, mem := range data {
		if mem == nil {
			s.logger.Warn("Skipping empty memory in saved data", "npc_id", id)
			continue
		}
		c := mem.Clone()
		if c.NPCID == "" {
			c.NPCID = id
		}
		c.Relationship = clamp(c.Relationship, MinRelationship, MaxRelationship)
		c.Trust = clamp(c.Trust, MinTrust, MaxTrust)
		c.Mood = DeriveMood(c.Relationship, c.Trust)
		if over := len(c.Interactions) - MaxInteractions; over > 0 {
			c.Interactions = c.Interactions[over:]
		}
		if c.Interactions == nil {
			c.Interactions = make([]Interaction, 0, MaxInteractions)
		}
		if c.Promises == nil {
			c.Promises = make([]Promise, 0)
		}
		if c.Secrets == nil {
			c.Secrets = make([]string, 0)
		}
		if c.Tags == nil {
			c.Tags = make([]string, 0)
		}
		s.memories[id] = c
	}
	return s
}

// MarshalJSON encodes the store as its serialized mapping.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Serialize())
}

// UnmarshalJSON replaces the store contents with the decoded mapping.
func (s *Store) UnmarshalJSON(data []byte) error {
	var raw map[string]*NPCMemory
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal npc memories: %w", err)
	}
	restored := Deserialize(raw, s.logger)
	s.memories = restored.memories
	if s.logger == nil {
		s.logger = restored.logger
	}
	if s.now == nil {
		s.now = restored.now
	}
	return nil
}
