package cache

import (
	"testing"
	"time"
)

func TestLRUBasic(t *testing.T) {
	c := NewLRU(3, time.Hour)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if val, ok := c.Get("a"); !ok || val != 1 {
		t.Errorf("expected 1, got %v", val)
	}

	// "a" was just touched, so adding "d" evicts "b".
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected 'b' to be evicted")
	}
	if c.Len() != 3 {
		t.Errorf("expected length 3, got %d", c.Len())
	}
}

func TestLRUTTL(t *testing.T) {
	c := NewLRU(10, 10*time.Millisecond)

	c.Set("key", "value")
	if val, ok := c.Get("key"); !ok || val != "value" {
		t.Error("expected value to be present")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("expected value to be expired")
	}
}

func TestLRUUpdateRefreshes(t *testing.T) {
	c := NewLRU(2, time.Hour)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("expected 'b' to be evicted after 'a' was refreshed")
	}
	if val, ok := c.Get("a"); !ok || val != 10 {
		t.Errorf("expected refreshed value 10, got %v", val)
	}
}

func TestLRUDumpRestore(t *testing.T) {
	c := NewLRU(5, time.Hour)
	c.Set("x", "one")
	c.Set("y", "two")

	dump := c.Dump()
	if len(dump) != 2 {
		t.Fatalf("expected 2 dumped entries, got %d", len(dump))
	}

	fresh := NewLRU(5, time.Hour)
	fresh.Restore(dump)

	if val, ok := fresh.Get("x"); !ok || val != "one" {
		t.Errorf("expected restored 'one', got %v", val)
	}
	if fresh.Len() != 2 {
		t.Errorf("expected length 2 after restore, got %d", fresh.Len())
	}
}

func TestLRURestoreSkipsExpired(t *testing.T) {
	dump := map[string]Entry{
		"dead": {Value: "gone", ExpiresAt: time.Now().Add(-time.Minute)},
		"live": {Value: "here", ExpiresAt: time.Now().Add(time.Minute)},
	}

	c := NewLRU(5, time.Hour)
	c.Restore(dump)

	if _, ok := c.Get("dead"); ok {
		t.Error("expected expired entry to be skipped on restore")
	}
	if val, ok := c.Get("live"); !ok || val != "here" {
		t.Errorf("expected live entry, got %v", val)
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU(3, time.Hour)
	c.Set("a", 1)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestHashKeyStable(t *testing.T) {
	if HashKey("prompt") != HashKey("prompt") {
		t.Error("expected identical keys for identical prompts")
	}
	if HashKey("prompt") == HashKey("prompt2") {
		t.Error("expected distinct keys for distinct prompts")
	}
}

func BenchmarkLRUSet(b *testing.B) {
	c := NewLRU(1000, 5*time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(HashKey(string(rune(i))), "value")
	}
}

func BenchmarkLRUGet(b *testing.B) {
	c := NewLRU(1000, 5*time.Minute)
	for i := 0; i < 100; i++ {
		c.Set(HashKey(string(rune(i))), "value")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(HashKey(string(rune(i % 100))))
	}
}
