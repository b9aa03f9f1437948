// Package memory persists conversation transcripts. The assistant replays
// the most recent records into each prompt so the model can refer back to
// earlier turns.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one transcript entry: a user message, an assistant reply, or a
// tool observation.
type Record struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord stamps a transcript entry with a fresh id and the current time.
func NewRecord(role, content string) Record {
	return Record{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is a transcript backend. Recent returns at most limit records in
// chronological order, oldest first.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Options selects and configures a transcript backend.
type Options struct {
	Backend         string // memory, postgres or mongo
	DSN             string // postgres connection string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	Capacity        int // in-memory bound, 0 for the default
}

// Open builds the Store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "memory":
		return NewInMemoryStore(opts.Capacity), nil
	case "postgres":
		return NewPostgresStore(ctx, opts.DSN)
	case "mongo":
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown transcript backend %q", opts.Backend)
	}
}
