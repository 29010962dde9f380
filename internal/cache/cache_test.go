package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected a hit")
	}

	if got.(string) != "v" {
		t.Fatalf("got %v, want v", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected a miss for an unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected the entry to expire")
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a to be deleted")
	}

	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be gone after Clear")
	}
}
