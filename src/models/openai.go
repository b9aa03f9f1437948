package models

import (
	"context"
	"errors"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAILLM drives OpenAI chat-completion models.
type OpenAILLM struct {
	Client       *openai.Client
	Model        string
	PromptPrefix string
}

// NewOpenAILLM constructs a client. The API key is read from
// OPENAI_API_KEY (with OPENAI_KEY as a legacy fallback).
func NewOpenAILLM(model, promptPrefix string) *OpenAILLM {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY")
	}
	return &OpenAILLM{
		Client:       openai.NewClient(apiKey),
		Model:        model,
		PromptPrefix: promptPrefix,
	}
}

func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (any, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prefixed(o.PromptPrefix, prompt),
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Agent = (*OpenAILLM)(nil)
