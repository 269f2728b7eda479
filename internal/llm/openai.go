package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/deusflow/cybernews/internal/config"
)

type openaiClient struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	log     zerolog.Logger
}

func newOpenAI(cfg *config.Config, log zerolog.Logger) Client {
	return &openaiClient{
		client:  openai.NewClient(cfg.OpenAIAPIKey),
		model:   cfg.OpenAIModel,
		limiter: rate.NewLimiter(rate.Limit(cfg.LLMRateRPS), 1),
		log:     log.With().Str("llm", "openai").Logger(),
	}
}

func (c *openaiClient) Complete(ctx context.Context, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: capPrompt(user)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
