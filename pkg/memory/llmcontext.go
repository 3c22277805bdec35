package memory

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
)

// NoMemoryContext is returned by GenerateLLMContext when the player has never
// met the NPC. Dialogue generation compares against it to detect a first meeting.
const NoMemoryContext = "No previous interactions with this NPC."

const (
	contextRecentInteractions = 5
	contextSummaryWidth       = 120
)

// GenerateLLMContext renders the NPC's memory as prompt text for dialogue
// generation.
func (s *Store) GenerateLLMContext(npcID string) string {
	mem, ok := s.memories[npcID]
	if !ok {
		return NoMemoryContext
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Memory of %s:\n", mem.NPCName))
	sb.WriteString(fmt.Sprintf("Relationship: %d/100 (%s)\n", mem.Relationship, mem.Mood))
	sb.WriteString(fmt.Sprintf("Trust: %d/100\n", mem.Trust))
	sb.WriteString(fmt.Sprintf("Total interactions: %d\n", mem.TotalInteractions))

	if n := len(mem.Interactions); n > 0 {
		sb.WriteString("Recent interactions:\n")
		for _, in := range mem.Interactions[max(0, n-contextRecentInteractions):] {
			summary := truncate.StringWithTail(in.Summary, contextSummaryWidth, "...")
			sb.WriteString(fmt.Sprintf("- [%s] %s (%s)", in.Type, summary, in.Outcome))
			if in.PlayerChoice != "" {
				sb.WriteString(fmt.Sprintf(" player chose: %q", in.PlayerChoice))
			}
			sb.WriteString("\n")
		}
	}

	if pending := mem.PendingPromises(); len(pending) > 0 {
		sb.WriteString("Pending promises from the player:\n")
		for _, p := range pending {
			sb.WriteString("- " + p.Description + "\n")
		}
	}

	if len(mem.Secrets) > 0 {
		sb.WriteString("Secrets the player shared: " + strings.Join(mem.Secrets, "; ") + "\n")
	}

	switch {
	case mem.OwedFavors > 0:
		sb.WriteString(fmt.Sprintf("Favors: the player owes %d\n", mem.OwedFavors))
	case mem.OwedFavors < 0:
		sb.WriteString(fmt.Sprintf("Favors: %s owes the player %d\n", mem.NPCName, -mem.OwedFavors))
	default:
		sb.WriteString("Favors: even\n")
	}

	if len(mem.Tags) > 0 {
		sb.WriteString("Notable: " + strings.Join(mem.Tags, ", ") + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
