package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/chat"
)

var ErrRateLimited = errors.New("generation rate limit exceeded")

// Generator adapts an LLMService to the dialogue generator contract. Every
// call is bounded by a timeout, and calls over the rate limit fail at once
// so the caller falls back instead of waiting.
type Generator struct {
	llm     LLMService
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// NewGenerator wraps llm. A non-positive perSecond disables rate limiting;
// a non-positive timeout leaves deadlines to the caller's context.
func NewGenerator(llm LLMService, timeout time.Duration, perSecond float64, burst int, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{llm: llm, timeout: timeout, logger: logger}
	if perSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(perSecond), max(1, burst))
	}
	return g
}

func (g *Generator) Generate(ctx context.Context, prompt []chat.ChatMessage) (string, error) {
	if g.limiter != nil && !g.limiter.Allow() {
		return "", ErrRateLimited
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.llm.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to get chat response: %w", err)
	}
	g.logger.Debug("Generated text", "duration", time.Since(start), "length", len(text))
	return text, nil
}
