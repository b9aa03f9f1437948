package concurrent

import (
	"context"
)

// Gate bounds how many callers may run a section at once. The assistant
// uses a capacity of one to serialize chat turns: the shared reasoning
// state is not reentrant, so turns queue here instead of interleaving.
type Gate struct {
	slots chan struct{}
}

// NewGate builds a gate admitting at most capacity concurrent callers.
func NewGate(capacity int) *Gate {
	if capacity <= 0 {
		capacity = 1
	}
	return &Gate{slots: make(chan struct{}, capacity)}
}

// Do runs fn once a slot is free. A caller whose context ends while
// waiting returns ctx.Err() without running fn; once fn has started it
// always runs to completion.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case g.slots <- struct{}{}:
		defer func() { <-g.slots }()
		return fn()
	}
}
