package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/Miltondz/one-page-rpg-sub001/pkg/chat"
)

// OpenAIService implements LLMService for OpenAI and any server speaking the
// same API (Ollama, vLLM, GLM and friends) via a custom base URL.
type OpenAIService struct {
	client    *openai.Client
	modelName string
	logger    *slog.Logger
}

func NewOpenAIService(apiKey, baseURL, modelName string, logger *slog.Logger) *OpenAIService {
	if logger == nil {
		logger = slog.Default()
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIService{
		client:    openai.NewClientWithConfig(config),
		modelName: modelName,
		logger:    logger,
	}
}

// InitModel checks the model is served by the endpoint.
func (o *OpenAIService) InitModel(ctx context.Context, modelName string) error {
	if modelName == "" {
		return fmt.Errorf("model name is required")
	}
	if _, err := o.client.GetModel(ctx, modelName); err != nil {
		return fmt.Errorf("failed to find model %s: %w", modelName, err)
	}
	return nil
}

func (o *OpenAIService) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.modelName,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return msgNoResponse, nil
	}

	o.logger.Debug("OpenAI response received",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}
