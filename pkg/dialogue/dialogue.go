// Package dialogue selects what an NPC says next. It tries a generative text
// backend first and falls back to seeded procedural templates, so a request
// always produces a line.
package dialogue

import (
	"context"
	"errors"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/actor"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/chat"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/memory"
)

var (
	ErrGenerationUnavailable = errors.New("generative text is unavailable")
	ErrPromptIncomplete      = errors.New("prompt is missing required fields")
	ErrEmptyResponse         = errors.New("generated response is empty")
	ErrMalformedResponse     = errors.New("generated response is malformed")
	ErrSessionClosed         = errors.New("dialogue session is closed")
	ErrInvalidTransition     = errors.New("invalid dialogue session transition")
)

// Emotion tags a line of dialogue for the presenter.
type Emotion string

const (
	EmotionAngry      Emotion = "angry"
	EmotionCurious    Emotion = "curious"
	EmotionAmused     Emotion = "amused"
	EmotionMysterious Emotion = "mysterious"
	EmotionDesperate  Emotion = "desperate"
	EmotionNeutral    Emotion = "neutral"
)

// Source records which stage produced a line.
type Source string

const (
	SourceGenerative Source = "generative"
	SourceProcedural Source = "procedural"
)

// MaxSuggestedResponses caps the player options offered with a line.
const MaxSuggestedResponses = 3

// Action is an optional gameplay hook attached to a line.
type Action struct {
	Label       string `json:"label"`
	Consequence string `json:"consequence"`
}

// GeneratedDialogue is one NPC line plus the player's suggested replies.
type GeneratedDialogue struct {
	Text               string   `json:"text"`
	Emotion            Emotion  `json:"emotion"`
	SuggestedResponses []string `json:"suggested_responses,omitempty"`
	Actions            []Action `json:"actions,omitempty"`
	Source             Source   `json:"source"`
}

// Options describes a dialogue request. Memory is included in the prompt
// unless IgnoreMemory is set.
type Options struct {
	NPC          actor.NPC
	Context      string // scene description
	PlayerAction string
	Topic        string
	Tone         string
	IgnoreMemory bool
}

// Generator is the opaque generative text capability: prompt in, text out.
// Any error, timeout or panic is treated as a failed generation.
type Generator interface {
	Generate(ctx context.Context, prompt []chat.ChatMessage) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt []chat.ChatMessage) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt []chat.ChatMessage) (string, error) {
	return f(ctx, prompt)
}

// MemoryReader is the read side of the memory store used by the selector.
type MemoryReader interface {
	GetMemory(npcID string) (*memory.NPCMemory, bool)
	GenerateLLMContext(npcID string) string
}

// Observer is notified of every generation attempt and its outcome.
type Observer interface {
	ObserveGeneration(npcID string, source Source, err error)
}

// Rand is the injectable random source used for template selection.
type Rand interface {
	IntN(n int) int
}
