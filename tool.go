package assistant

import "context"

// ToolSpec describes a callable tool to the model: its name, a
// natural-language description of when to use it, and a JSON schema for
// its arguments. Examples, when present, are rendered into the prompt
// after the schema.
type ToolSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema map[string]any   `json:"input_schema,omitempty"`
	Examples    []map[string]any `json:"examples,omitempty"`
}

// ToolRequest carries the arguments the model selected for one invocation.
type ToolRequest struct {
	SessionID string
	Arguments map[string]any
}

// ToolResponse is a tool's observation: prose the model can read back,
// plus optional metadata recorded alongside the transcript entry.
type ToolResponse struct {
	Content  string
	Metadata map[string]string
}

// Tool is a single operation the assistant may invoke during a turn.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}
