// Package llm abstracts the chat-completion backend used for rewriting,
// section generation and byline extraction. Every provider accepts a
// system+user message pair and returns free text; callers own all fallback
// behavior, so a provider error never fails the pipeline.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deusflow/cybernews/internal/config"
)

// ErrUnavailable is returned by the disabled client and lets callers take
// their deterministic fallback paths.
var ErrUnavailable = errors.New("llm backend unavailable")

// Client is the language-model backend contract.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// New selects a provider from the config. A missing API key yields the
// disabled client rather than an error so the pipeline can still run on
// template fallbacks alone.
func New(cfg *config.Config, log zerolog.Logger) (Client, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Warn().Msg("GEMINI_API_KEY not set, llm disabled")
			return Disabled(), nil
		}
		return newGemini(cfg, log)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Warn().Msg("OPENAI_API_KEY not set, llm disabled")
			return Disabled(), nil
		}
		return newOpenAI(cfg, log), nil
	case "none", "disabled", "":
		return Disabled(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

type disabled struct{}

// Disabled returns a client whose calls always fail with ErrUnavailable.
func Disabled() Client { return disabled{} }

func (disabled) Complete(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}
