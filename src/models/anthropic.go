package models

import (
	"context"
	"errors"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

// AnthropicLLM drives Anthropic models through the Messages API.
type AnthropicLLM struct {
	Client       *anthropic.Client
	Model        string
	MaxTokens    int
	PromptPrefix string
}

// NewAnthropicLLM constructs a client from ANTHROPIC_API_KEY.
func NewAnthropicLLM(model, promptPrefix string) (*AnthropicLLM, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, errors.New("ANTHROPIC_API_KEY must be set")
	}
	cl := anthropic.NewClient(anthropicopt.WithAPIKey(key))
	return &AnthropicLLM{
		Client:       &cl,
		Model:        model,
		MaxTokens:    anthropicMaxTokens,
		PromptPrefix: promptPrefix,
	}, nil
}

// Generate performs a single-turn completion and returns the concatenated
// text blocks of the reply.
func (a *AnthropicLLM) Generate(ctx context.Context, prompt string) (any, error) {
	msg, err := a.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: int64(a.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prefixed(a.PromptPrefix, prompt))),
		},
	})
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("anthropic: empty response")
	}
	return text.String(), nil
}

var _ Agent = (*AnthropicLLM)(nil)
