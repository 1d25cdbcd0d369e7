package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	// Start in-memory Redis
	s := miniredis.RunT(t)
	defer s.Close()

	// Use a non-zero DB to verify it's set
	c, err := OpenRedis(s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	// Check the client actually works and uses the right DB
	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// balances live in a hash; make sure HINCRBY round-trips on the selected DB
	if err := c.HIncrBy(ctx, "payments:balances", "0xabc", 42).Err(); err != nil {
		t.Fatalf("HINCRBY err: %v", err)
	}
	v, err := c.HGet(ctx, "payments:balances", "0xabc").Result()
	if err != nil {
		t.Fatalf("HGET err: %v", err)
	}
	if v != "42" {
		t.Fatalf("HGET value = %q, want %q", v, "42")
	}
	s.Select(2)
	if !s.Exists("payments:balances") {
		t.Fatalf("key not written to DB 2")
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	// Unresolvable host → Ping should fail immediately (no 5s delay)
	if _, err := OpenRedis("not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}
