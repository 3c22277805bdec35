package services

import (
	"context"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/chat"
)

const (
	msgNoResponse = "(no response)"

	// Dialogue lines are short; generous limits only slow the backend down.
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 400
)

// LLMService is a text generation backend.
type LLMService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Chat returns the backend's reply to the conversation.
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)
}
