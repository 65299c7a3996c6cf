// Package brain wraps the language-model providers behind a single
// completion interface and builds the intent classifier and parameter
// extractor on top of it.
package brain

import (
	"context"
	"fmt"

	"tweetmint-go/internal/config"
)

// Client is a single chat-style completion: system instruction plus user
// content in, free text out. Callers parse and validate the text.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewClient selects a provider implementation from configuration.
func NewClient(cfg *config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Model), nil
	case "gemini":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
