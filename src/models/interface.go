package models

import "context"

// Agent is the text-generation contract the assistant reasons through.
// Implementations return their provider's raw result; callers coerce it
// to a string with fmt.Sprint.
type Agent interface {
	Generate(ctx context.Context, prompt string) (any, error)
}
