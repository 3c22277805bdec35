package dialogue

import (
	"fmt"
	"strings"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/chat"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
)

// Content ratings understood by the prompt builder.
const (
	RatingG    = "G"
	RatingPG   = "PG"
	RatingPG13 = "PG13"
	RatingR    = "R"
)

const (
	contentRatingG    = "Keep everything suitable for young children. No violence, romance or frightening elements."
	contentRatingPG   = "Keep everything suitable for families. Mild peril is fine, but no strong language or dark themes."
	contentRatingPG13 = "Mild swearing and tension are fine, but avoid graphic violence and explicit adult situations."
	contentRatingR    = "Write freely for an adult audience."
)

const npcSystemPrompt = `You are %s, a character in a fantasy roleplaying game. Stay in character at all times and speak only as %s. Never mention that you are an AI.

Reply with ONE short line of spoken dialogue (at most three sentences), then offer the player up to three short replies.

Respond with ONLY a JSON object of this shape, no prose around it:
{"text": "what you say", "emotion": "angry|curious|amused|mysterious|desperate|neutral", "suggested_responses": ["reply one", "reply two", "reply three"]}`

const firstMeetingPrompt = "You have never met the player before."

// ContentRatingPrompt returns the guidance for a rating, defaulting to PG13.
func ContentRatingPrompt(rating string) string {
	switch strings.ToUpper(strings.ReplaceAll(rating, "-", "")) {
	case RatingG:
		return contentRatingG
	case RatingPG:
		return contentRatingPG
	case RatingR:
		return contentRatingR
	default:
		return contentRatingPG13
	}
}

// PromptBuilder assembles the messages sent to the generative backend.
type PromptBuilder struct {
	npc           *actor.NPC
	scene         string
	playerAction  string
	topic         string
	tone          string
	memoryContext string
	rating        string
}

// NewPrompt creates an empty prompt builder.
func NewPrompt() *PromptBuilder {
	return &PromptBuilder{rating: RatingPG13}
}

// WithNPC sets the speaking NPC.
func (b *PromptBuilder) WithNPC(npc actor.NPC) *PromptBuilder {
	b.npc = &npc
	return b
}

// WithScene sets the scene description.
func (b *PromptBuilder) WithScene(scene string) *PromptBuilder {
	b.scene = scene
	return b
}

func (b *PromptBuilder) WithPlayerAction(action string) *PromptBuilder {
	b.playerAction = action
	return b
}

func (b *PromptBuilder) WithTopic(topic string) *PromptBuilder {
	b.topic = topic
	return b
}

func (b *PromptBuilder) WithTone(tone string) *PromptBuilder {
	b.tone = tone
	return b
}

// WithMemoryContext sets the rendered memory of the player. An empty string
// or the no-memory sentinel is treated as a first meeting.
func (b *PromptBuilder) WithMemoryContext(ctx string) *PromptBuilder {
	b.memoryContext = ctx
	return b
}

func (b *PromptBuilder) WithContentRating(rating string) *PromptBuilder {
	b.rating = rating
	return b
}

// Build returns the system prompt followed by the player's turn.
func (b *PromptBuilder) Build() ([]chat.ChatMessage, error) {
	if b.npc == nil {
		return nil, fmt.Errorf("%w: npc is required", ErrPromptIncomplete)
	}
	if strings.TrimSpace(b.npc.Name) == "" {
		return nil, fmt.Errorf("%w: npc name is required", ErrPromptIncomplete)
	}
	if strings.TrimSpace(b.scene) == "" {
		return nil, fmt.Errorf("%w: scene context is required", ErrPromptIncomplete)
	}

	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: b.systemPrompt()},
		{Role: chat.ChatRoleUser, Content: b.userPrompt()},
	}, nil
}

func (b *PromptBuilder) systemPrompt() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(npcSystemPrompt, b.npc.Name, b.npc.Name))

	sb.WriteString("\n\n### Character\n")
	if b.npc.Role != "" {
		sb.WriteString("Role: " + b.npc.Role + "\n")
	}
	if b.npc.Faction != "" {
		sb.WriteString("Faction: " + b.npc.Faction + "\n")
	}
	if len(b.npc.Personality) > 0 {
		sb.WriteString("Personality: " + strings.Join(b.npc.Personality, ", ") + "\n")
	}
	if b.npc.Description != "" {
		sb.WriteString("Background: " + b.npc.Description + "\n")
	}

	sb.WriteString("\n### What you remember\n")
	if b.memoryContext == "" || b.memoryContext == memory.NoMemoryContext {
		sb.WriteString(firstMeetingPrompt)
	} else {
		sb.WriteString(b.memoryContext)
	}

	sb.WriteString("\n\nContent Rating: " + ContentRatingPrompt(b.rating))
	return sb.String()
}

func (b *PromptBuilder) userPrompt() string {
	var sb strings.Builder
	sb.WriteString("Scene: " + b.scene)
	if b.topic != "" {
		sb.WriteString("\nTopic: " + b.topic)
	}
	if b.tone != "" {
		sb.WriteString("\nTone: " + b.tone)
	}
	if b.playerAction != "" {
		sb.WriteString("\nThe player: " + b.playerAction)
	} else {
		sb.WriteString("\nThe player approaches you.")
	}
	return sb.String()
}
