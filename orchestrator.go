package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schedmate/go-assistant/src/memory"
)

const decisionInstructions = "Decide the next step and answer with STRICT JSON only, no prose around it, in this shape:\n" +
	`{"use_tool": true|false, "tool_name": "<tool name>", "arguments": {<tool arguments>}, "reply": "<final answer for the user>"}` + "\n" +
	`Set "use_tool" to true to call exactly one tool from the list above. When the tool results already answer the user, set "use_tool" to false and write the final reply.`

const closingInstructions = "Write the final reply for the user based on the tool results above. Answer with plain text only."

// decision is the strict JSON shape the model answers with on every step.
type decision struct {
	UseTool   bool           `json:"use_tool"`
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Reply     string         `json:"reply"`
}

func (a *Assistant) respond(ctx context.Context, userMessage string) (string, error) {
	a.storeTranscript(ctx, "user", userMessage)

	// A store that cannot serve history degrades to a memoryless turn.
	history, err := a.transcripts.Recent(ctx, a.transcriptLimit)
	if err != nil {
		history = nil
	}

	var observations []string
	for turn := 0; turn < a.maxToolTurns; turn++ {
		completion, err := a.model.Generate(ctx, a.buildPrompt(history, userMessage, observations, decisionInstructions))
		if err != nil {
			return "", fmt.Errorf("model generate: %w", err)
		}
		raw := strings.TrimSpace(fmt.Sprint(completion))

		dec, ok := parseDecision(raw)
		if !ok {
			// The model ignored the protocol; its text is the reply.
			a.storeTranscript(ctx, "assistant", raw)
			return raw, nil
		}
		if !dec.UseTool {
			reply := strings.TrimSpace(dec.Reply)
			if reply == "" {
				reply = raw
			}
			a.storeTranscript(ctx, "assistant", reply)
			return reply, nil
		}

		observations = append(observations, a.invokeTool(ctx, dec))
	}

	// Tool budget exhausted: force a closing reply.
	completion, err := a.model.Generate(ctx, a.buildPrompt(history, userMessage, observations, closingInstructions))
	if err != nil {
		return "", fmt.Errorf("model generate: %w", err)
	}
	reply := strings.TrimSpace(fmt.Sprint(completion))
	if dec, ok := parseDecision(reply); ok && strings.TrimSpace(dec.Reply) != "" {
		reply = strings.TrimSpace(dec.Reply)
	}
	a.storeTranscript(ctx, "assistant", reply)
	return reply, nil
}

// invokeTool runs one tool call and renders the outcome as an observation
// line. Unknown tools and tool failures become observations too, so the
// model can recover instead of the turn erroring out.
func (a *Assistant) invokeTool(ctx context.Context, dec decision) string {
	name := strings.TrimSpace(dec.ToolName)
	tool, spec, ok := a.catalog.Lookup(name)
	if !ok {
		return fmt.Sprintf("%s => error: unknown tool", name)
	}

	response, err := tool.Invoke(ctx, ToolRequest{SessionID: a.sessionID, Arguments: dec.Arguments})
	if err != nil {
		observation := fmt.Sprintf("%s => error: %v", spec.Name, err)
		a.storeTranscript(ctx, "tool", observation)
		return observation
	}
	observation := fmt.Sprintf("%s => %s", spec.Name, strings.TrimSpace(response.Content))
	a.storeTranscript(ctx, "tool", observation)
	return observation
}

func (a *Assistant) buildPrompt(history []memory.Record, userMessage string, observations []string, instructions string) string {
	var sb strings.Builder
	sb.Grow(4096)

	sb.WriteString(a.systemPrompt)

	if tools := renderTools(a.catalog.Specs()); tools != "" {
		sb.WriteString("\n\n")
		sb.WriteString(tools)
	}

	sb.WriteString("\n\nConversation so far:\n")
	sb.WriteString(renderHistory(history))

	if len(observations) > 0 {
		sb.WriteString("\nTool results for the current message:\n")
		for i, observation := range observations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, escapePromptContent(observation)))
		}
	}

	sb.WriteString("\nCurrent user message:\n")
	sb.WriteString(strings.TrimSpace(userMessage))
	sb.WriteString("\n\n")
	sb.WriteString(instructions)
	sb.WriteString("\n")

	return sb.String()
}

// renderTools formats the catalog into a prompt-friendly block.
func renderTools(specs []ToolSpec) string {
	if len(specs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, spec := range specs {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Description))
		if len(spec.InputSchema) > 0 {
			if schemaJSON, err := json.MarshalIndent(spec.InputSchema, "  ", "  "); err == nil {
				sb.WriteString("  Input schema: ")
				sb.Write(schemaJSON)
				sb.WriteString("\n")
			}
		}
		if len(spec.Examples) > 0 {
			sb.WriteString("  Examples:\n")
			for _, example := range spec.Examples {
				if exampleJSON, err := json.MarshalIndent(example, "    ", "  "); err == nil {
					sb.Write(exampleJSON)
					sb.WriteString("\n")
				}
			}
		}
	}
	return sb.String()
}

// renderHistory formats stored transcript records, oldest first.
func renderHistory(records []memory.Record) string {
	if len(records) == 0 {
		return "(no prior conversation)\n"
	}

	var sb strings.Builder
	for i, rec := range records {
		content := strings.TrimSpace(rec.Content)
		if content == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, rec.Role, escapePromptContent(content)))
	}
	return sb.String()
}

// escapePromptContent strips backticks that would break prompt formatting.
func escapePromptContent(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

// parseDecision extracts the strict JSON decision from a model completion.
// It tolerates code fences and prose around the object; anything without a
// parseable object reports false.
func parseDecision(raw string) (decision, bool) {
	payload, ok := extractJSON(raw)
	if !ok {
		return decision{}, false
	}
	var dec decision
	if err := json.Unmarshal([]byte(payload), &dec); err != nil {
		return decision{}, false
	}
	return dec, true
}

func extractJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if end := strings.LastIndex(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return trimmed[start : end+1], true
}
