package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLLM drives Google Gemini models.
type GeminiLLM struct {
	Client       *genai.Client
	Model        string
	PromptPrefix string
}

// NewGeminiLLM constructs a client from GOOGLE_API_KEY or GEMINI_API_KEY.
func NewGeminiLLM(ctx context.Context, model, promptPrefix string) (*GeminiLLM, error) {
	key := os.Getenv("GOOGLE_API_KEY")
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		return nil, errors.New("GOOGLE_API_KEY or GEMINI_API_KEY must be set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &GeminiLLM{Client: client, Model: model, PromptPrefix: promptPrefix}, nil
}

// Generate performs a single-turn completion and returns the concatenated
// text of every part in the first candidate.
func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (any, error) {
	model := g.Client.GenerativeModel(g.Model)

	resp, err := model.GenerateContent(ctx, genai.Text(prefixed(g.PromptPrefix, prompt)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini: empty response")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("gemini: no text in response")
	}
	return text.String(), nil
}

var _ Agent = (*GeminiLLM)(nil)
