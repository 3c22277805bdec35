package dialogue

import (
	"strings"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
)

// Player choices that end a session without further generation.
const (
	ChoiceLeave  = "[Leave]"
	ChoiceAttack = "[Attack]"
)

var (
	firstMeetingResponses = []string{"Greetings. Who are you?", "I'm only passing through.", ChoiceLeave}
	trustingResponses     = []string{"It's good to see you again.", "Is there anything I can do for you?", "What news do you have for me?"}
	combativeResponses    = []string{"I don't want any trouble.", ChoiceAttack + " Then we settle this now.", ChoiceLeave}
	guardedResponses      = []string{"I mean you no harm.", "What do you know about this place?", "Why are you looking at me like that?"}
)

// SuggestResponses offers the player up to three replies based on how the
// NPC feels about them. A nil memory means a first meeting.
func SuggestResponses(mem *memory.NPCMemory) []string {
	var options []string
	switch {
	case mem == nil:
		options = firstMeetingResponses
	case mem.Mood == memory.MoodFriendly || mem.Mood == memory.MoodDevoted:
		options = trustingResponses
	case mem.Mood == memory.MoodHostile:
		options = combativeResponses
	default:
		options = guardedResponses
	}
	return capResponses(options)
}

// IsTerminalChoice reports whether a player choice ends the session.
func IsTerminalChoice(choice string) bool {
	return strings.TrimSpace(choice) == ChoiceLeave || strings.Contains(choice, ChoiceAttack)
}

func capResponses(responses []string) []string {
	out := make([]string, 0, MaxSuggestedResponses)
	for _, r := range responses {
		if r = strings.TrimSpace(r); r == "" {
			continue
		}
		out = append(out, r)
		if len(out) == MaxSuggestedResponses {
			break
		}
	}
	return out
}
