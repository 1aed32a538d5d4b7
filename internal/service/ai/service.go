package ai

import (
	"context"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	systemPrompt = "You are a helpful contract analysis assistant."

	// extraction task, not creative writing
	completionTemperature float32 = 0.3
)

// Service invokes the text-completion capability for contract analysis.
type Service struct {
	chatModel model.ToolCallingChatModel
}

// NewService wraps an already-constructed chat model.
func NewService(chatModel model.ToolCallingChatModel) *Service {
	return &Service{chatModel: chatModel}
}

// Complete sends the rendered prompt to the model and returns the raw output.
// Any invocation error is absorbed: the fixed fallback payload is returned
// with degraded=true so downstream stages never see a hard stop.
func (s *Service) Complete(ctx context.Context, prompt, fallbackSource string) (string, bool) {
	messages := []*schema.Message{
		{
			Role:    schema.System,
			Content: systemPrompt,
		},
		{
			Role:    schema.User,
			Content: prompt,
		},
	}
	resp, err := s.chatModel.Generate(ctx, messages, model.WithTemperature(completionTemperature))
	if err != nil {
		log.Printf("[ai] model invocation failed, using fallback payload: %v", err)
		return FallbackPayload(fallbackSource), true
	}
	if resp == nil || resp.Content == "" {
		log.Printf("[ai] model returned empty content, using fallback payload")
		return FallbackPayload(fallbackSource), true
	}
	return resp.Content, false
}
