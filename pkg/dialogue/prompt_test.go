package dialogue

import (
	"errors"
	"strings"
	"testing"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/chat"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
)

var mara = actor.NPC{
	ID:          "mara",
	Name:        "Mara",
	Role:        "innkeeper",
	Faction:     "village",
	Personality: []string{"friendly", "nosy"},
	Description: "Runs the Drowned Rat.",
}

func TestPromptBuilder_Build(t *testing.T) {
	messages, err := NewPrompt().
		WithNPC(mara).
		WithScene("a smoky tavern").
		WithPlayerAction("asks about rooms").
		WithTopic("lodging").
		WithTone("warm").
		WithMemoryContext("Memory of Mara:\nRelationship: 30/100 (friendly)").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != chat.ChatRoleSystem || messages[1].Role != chat.ChatRoleUser {
		t.Errorf("unexpected roles %s, %s", messages[0].Role, messages[1].Role)
	}

	system := messages[0].Content
	for _, want := range []string{"You are Mara", "Role: innkeeper", "Faction: village", "Personality: friendly, nosy", "Runs the Drowned Rat.", "Relationship: 30/100", contentRatingPG13} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	user := messages[1].Content
	for _, want := range []string{"Scene: a smoky tavern", "Topic: lodging", "Tone: warm", "The player: asks about rooms"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestPromptBuilder_FirstMeeting(t *testing.T) {
	for _, ctx := range []string{"", memory.NoMemoryContext} {
		messages, err := NewPrompt().WithNPC(mara).WithScene("the road").WithMemoryContext(ctx).Build()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(messages[0].Content, firstMeetingPrompt) {
			t.Errorf("expected first meeting prompt for memory context %q", ctx)
		}
		if !strings.Contains(messages[1].Content, "The player approaches you.") {
			t.Error("expected default player action")
		}
	}
}

func TestPromptBuilder_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		builder *PromptBuilder
	}{
		{"no npc", NewPrompt().WithScene("the road")},
		{"no name", NewPrompt().WithNPC(actor.NPC{ID: "x"}).WithScene("the road")},
		{"no scene", NewPrompt().WithNPC(mara).WithScene("  ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if !errors.Is(err, ErrPromptIncomplete) {
				t.Errorf("expected ErrPromptIncomplete, got %v", err)
			}
		})
	}
}

func TestContentRatingPrompt(t *testing.T) {
	tests := []struct {
		rating string
		want   string
	}{
		{"G", contentRatingG},
		{"pg", contentRatingPG},
		{"PG-13", contentRatingPG13},
		{"R", contentRatingR},
		{"unknown", contentRatingPG13},
	}
	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			if got := ContentRatingPrompt(tt.rating); got != tt.want {
				t.Errorf("ContentRatingPrompt(%q) = %q, want %q", tt.rating, got, tt.want)
			}
		})
	}
}
