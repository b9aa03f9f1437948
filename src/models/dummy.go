package models

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DummyLLM is a deterministic model for tests and offline runs. It plays
// back scripted replies in order; once the script is exhausted (or when
// none was given) it emits a no-tool decision carrying its prefix, which
// the reasoning loop renders as a plain reply.
type DummyLLM struct {
	Prefix  string
	Replies []string

	mu   sync.Mutex
	next int
}

func NewDummyLLM(prefix string, replies ...string) *DummyLLM {
	if strings.TrimSpace(prefix) == "" {
		prefix = "I can check availability, book, reschedule, and cancel calendar events."
	}
	return &DummyLLM{Prefix: prefix, Replies: replies}
}

func (d *DummyLLM) Generate(_ context.Context, _ string) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.next < len(d.Replies) {
		reply := d.Replies[d.next]
		d.next++
		return reply, nil
	}
	return fmt.Sprintf(`{"use_tool": false, "reply": %q}`, d.Prefix), nil
}

var _ Agent = (*DummyLLM)(nil)
