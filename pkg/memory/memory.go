// Package memory tracks what each NPC remembers about the player: the bounded
// interaction history and the relationship, trust and mood derived from it.
package memory

import (
	"slices"
	"time"
)

// InteractionType classifies an interaction between the player and an NPC.
type InteractionType string

const (
	InteractionDialogue InteractionType = "dialogue"
	InteractionTrade    InteractionType = "trade"
	InteractionQuest    InteractionType = "quest"
	InteractionCombat   InteractionType = "combat"
	InteractionGift     InteractionType = "gift"
	InteractionBetrayal InteractionType = "betrayal"
	InteractionHelp     InteractionType = "help"
)

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionDialogue, InteractionTrade, InteractionQuest, InteractionCombat,
		InteractionGift, InteractionBetrayal, InteractionHelp:
		return true
	}
	return false
}

// Outcome is how an interaction turned out from the NPC's point of view.
type Outcome string

const (
	OutcomePositive Outcome = "positive"
	OutcomeNegative Outcome = "negative"
	OutcomeNeutral  Outcome = "neutral"
)

// Mood is the NPC's derived emotional stance toward the player.
type Mood string

const (
	MoodHostile    Mood = "hostile"
	MoodSuspicious Mood = "suspicious"
	MoodNeutral    Mood = "neutral"
	MoodFriendly   Mood = "friendly"
	MoodDevoted    Mood = "devoted"
)

const (
	MaxInteractions = 20

	MinRelationship = -100
	MaxRelationship = 100
	MinTrust        = 0
	MaxTrust        = 100
	MinImpact       = -10
	MaxImpact       = 10

	DefaultTrust = 50

	TagBetrayed    = "betrayed"
	TagSavedLife   = "saved-life"
	TagCloseFriend = "close-friend"
)

// Interaction is an immutable record of something that happened between the
// player and one NPC.
type Interaction struct {
	Timestamp       time.Time       `json:"timestamp"`
	NPCID           string          `json:"npc_id"`
	Type            InteractionType `json:"type"`
	Summary         string          `json:"summary"`
	PlayerChoice    string          `json:"player_choice,omitempty"`
	Outcome         Outcome         `json:"outcome"`
	EmotionalImpact int             `json:"emotional_impact"` // -10..10
	Context         string          `json:"context,omitempty"`
}

// Promise is something the player promised an NPC.
type Promise struct {
	Description string    `json:"description"`
	Fulfilled   bool      `json:"fulfilled"`
	Timestamp   time.Time `json:"timestamp"`
}

// NPCMemory is everything one NPC remembers about the player.
// Secrets and Tags are sets kept in insertion order.
type NPCMemory struct {
	NPCID             string        `json:"npc_id"`
	NPCName           string        `json:"npc_name"`
	FirstMetAt        time.Time     `json:"first_met_at"`
	LastSeenAt        time.Time     `json:"last_seen_at"`
	TotalInteractions int           `json:"total_interactions"`
	Relationship      int           `json:"relationship"` // -100..100
	Mood              Mood          `json:"mood"`
	Trust             int           `json:"trust"` // 0..100
	Interactions      []Interaction `json:"interactions"`
	Promises          []Promise     `json:"promises"`
	Secrets           []string      `json:"secrets"`
	OwedFavors        int           `json:"owed_favors"` // positive: player owes the NPC
	Tags              []string      `json:"tags"`
}

// HasTag reports whether the memory carries tag.
func (m *NPCMemory) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

// HasSecret reports whether the exact secret was shared with this NPC.
func (m *NPCMemory) HasSecret(secret string) bool {
	return slices.Contains(m.Secrets, secret)
}

// PendingPromises returns the promises not yet fulfilled, oldest first.
func (m *NPCMemory) PendingPromises() []Promise {
	var pending []Promise
	for _, p := range m.Promises {
		if !p.Fulfilled {
			pending = append(pending, p)
		}
	}
	return pending
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (m *NPCMemory) Clone() *NPCMemory {
	if m == nil {
		return nil
	}
	c := *m
	c.Interactions = slices.Clone(m.Interactions)
	c.Promises = slices.Clone(m.Promises)
	c.Secrets = slices.Clone(m.Secrets)
	c.Tags = slices.Clone(m.Tags)
	return &c
}

// DeriveMood maps relationship and trust to a mood. The first matching rule wins.
func DeriveMood(relationship, trust int) Mood {
	switch {
	case relationship < -50 || trust < 20:
		return MoodHostile
	case relationship < -20 || trust < 40:
		return MoodSuspicious
	case relationship > 50 && trust > 70:
		return MoodDevoted
	case relationship > 20:
		return MoodFriendly
	default:
		return MoodNeutral
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
