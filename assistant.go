// Package assistant orchestrates a conversational scheduling agent: it
// renders the tool catalog and recent transcript into a prompt, lets the
// model decide between answering and calling a calendar tool, executes the
// chosen tool, and feeds the observation back until the model produces a
// reply.
package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/schedmate/go-assistant/src/concurrent"
	"github.com/schedmate/go-assistant/src/memory"
	"github.com/schedmate/go-assistant/src/models"
)

const defaultSystemPrompt = "You are a scheduling assistant for a Google Calendar. Help the user check availability, book, reschedule, and cancel events. Confirm what you did in plain language and include event ids when you create something."

const (
	defaultTranscriptLimit = 16
	defaultMaxToolTurns    = 6
)

// Assistant owns one conversation against one calendar. Turns are
// serialized: a second caller waits until the in-flight turn finishes.
type Assistant struct {
	model           models.Agent
	catalog         *Catalog
	transcripts     memory.Store
	gate            *concurrent.Gate
	systemPrompt    string
	transcriptLimit int
	maxToolTurns    int
	sessionID       string
}

// Options configure a new Assistant. Model is required; everything else
// has a working default.
type Options struct {
	Model        models.Agent
	Tools        []Tool
	Catalog      *Catalog
	Transcripts  memory.Store
	SystemPrompt string

	// TranscriptLimit caps how many stored records are replayed into the
	// prompt. MaxToolTurns caps tool calls within a single user message.
	TranscriptLimit int
	MaxToolTurns    int
	SessionID       string
}

// New creates an Assistant with the provided options.
func New(opts Options) (*Assistant, error) {
	if opts.Model == nil {
		return nil, errors.New("assistant requires a language model")
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = NewCatalog()
	}
	for _, tool := range opts.Tools {
		if tool == nil {
			continue
		}
		if err := catalog.Register(tool); err != nil {
			return nil, err
		}
	}

	transcripts := opts.Transcripts
	if transcripts == nil {
		transcripts = memory.NewInMemoryStore(0)
	}

	systemPrompt := opts.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}

	limit := opts.TranscriptLimit
	if limit <= 0 {
		limit = defaultTranscriptLimit
	}
	turns := opts.MaxToolTurns
	if turns <= 0 {
		turns = defaultMaxToolTurns
	}
	sessionID := opts.SessionID
	if strings.TrimSpace(sessionID) == "" {
		sessionID = uuid.NewString()
	}

	return &Assistant{
		model:           opts.Model,
		catalog:         catalog,
		transcripts:     transcripts,
		gate:            concurrent.NewGate(1),
		systemPrompt:    systemPrompt,
		transcriptLimit: limit,
		maxToolTurns:    turns,
		sessionID:       sessionID,
	}, nil
}

// Respond processes one user message and returns the assistant's reply.
// Concurrent calls queue behind the gate; a queued caller whose context
// ends before its turn starts gets the context error, but a turn already
// in flight always runs to completion.
func (a *Assistant) Respond(ctx context.Context, userMessage string) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", errors.New("user message is empty")
	}

	var reply string
	err := a.gate.Do(ctx, func() error {
		var turnErr error
		reply, turnErr = a.respond(ctx, userMessage)
		return turnErr
	})
	return reply, err
}

// SessionID identifies this conversation in transcript metadata.
func (a *Assistant) SessionID() string {
	return a.sessionID
}

func (a *Assistant) storeTranscript(ctx context.Context, role, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	// Transcript persistence is best effort: a failing store must not
	// take the conversation down with it.
	_ = a.transcripts.Append(ctx, memory.NewRecord(role, content))
}
