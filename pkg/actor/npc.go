package actor

import (
	"fmt"
	"strings"
)

// NPC describes a non-player character as supplied by game-state management.
// The social core consumes it but never owns or mutates it.
type NPC struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role,omitempty"`        // e.g. "merchant", "guard", "innkeeper"
	Faction     string   `json:"faction,omitempty"`     // faction identifier, see reputation.Faction
	Personality []string `json:"personality,omitempty"` // ordered, most defining trait first
	Description string   `json:"description,omitempty"` // short backstory used in prompts
}

// PrimaryTrait returns the first non-empty personality trait, lowercased.
// Returns an empty string when the NPC has no usable personality data.
func (n *NPC) PrimaryTrait() string {
	if n == nil {
		return ""
	}
	for _, trait := range n.Personality {
		if t := strings.ToLower(strings.TrimSpace(trait)); t != "" {
			return t
		}
	}
	return ""
}

// DisplayName falls back to the ID when no name was given.
func (n *NPC) DisplayName() string {
	if n == nil {
		return ""
	}
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Validate checks the fields every operation relies on.
func (n *NPC) Validate() error {
	if n == nil {
		return fmt.Errorf("npc cannot be nil")
	}
	if strings.TrimSpace(n.ID) == "" {
		return fmt.Errorf("npc id cannot be empty")
	}
	return nil
}
