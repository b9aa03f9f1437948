package models

import (
	"context"
	"fmt"
	"strings"
)

// NewLLMProvider builds the model named by provider. The promptPrefix is
// prepended to every prompt (persona and conventions live there).
func NewLLMProvider(ctx context.Context, provider, model, promptPrefix string) (Agent, error) {
	switch provider {
	case "openai":
		return NewOpenAILLM(model, promptPrefix), nil
	case "gemini", "google":
		return NewGeminiLLM(ctx, model, promptPrefix)
	case "ollama":
		return NewOllamaLLM(model, promptPrefix)
	case "anthropic", "claude":
		return NewAnthropicLLM(model, promptPrefix)
	case "dummy":
		return NewDummyLLM(promptPrefix), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// prefixed prepends a persona prefix to the prompt when one is set.
func prefixed(prefix, prompt string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return prompt
	}
	return prefix + "\n\n" + prompt
}
