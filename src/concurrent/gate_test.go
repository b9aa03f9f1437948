package concurrent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGateRunsFunction(t *testing.T) {
	g := NewGate(1)

	ran := false
	err := g.Do(context.Background(), func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("expected fn to run")
	}
}

func TestGatePropagatesError(t *testing.T) {
	g := NewGate(1)

	want := errors.New("boom")
	if err := g.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestGateSerializes(t *testing.T) {
	g := NewGate(1)

	var mu sync.Mutex
	active, maxActive := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do(context.Background(), func() error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Fatalf("expected at most 1 caller inside the gate, saw %d", maxActive)
	}
}

func TestGateAbandonsQueuedCaller(t *testing.T) {
	g := NewGate(1)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = g.Do(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := g.Do(ctx, func() error {
		ran = true
		return nil
	})
	close(release)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ran {
		t.Fatal("queued fn must not run after cancellation")
	}
}
