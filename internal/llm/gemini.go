package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/deusflow/cybernews/internal/config"
)

// promptBudget caps the user prompt size sent to the model. Chunking
// upstream keeps real inputs well below this; the cap is a safety net for
// callers that pass unchunked text.
const promptBudget = 8000

type geminiClient struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	log     zerolog.Logger
}

func newGemini(cfg *config.Config, log zerolog.Logger) (Client, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiClient{
		client:  client,
		model:   cfg.GeminiModel,
		limiter: rate.NewLimiter(rate.Limit(cfg.LLMRateRPS), 1),
		log:     log.With().Str("llm", "gemini").Logger(),
	}, nil
}

func (c *geminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(capPrompt(user)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini response")
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

// capPrompt trims oversized prompts on a rune boundary, preferring to end
// at a sentence terminator so the model never sees a mid-word cut.
func capPrompt(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
	if utf8.RuneCountInString(s) <= promptBudget {
		return s
	}
	runes := []rune(s)
	trimmed := string(runes[:promptBudget])
	if idx := strings.LastIndex(trimmed, ". "); idx > promptBudget/4 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed
}
