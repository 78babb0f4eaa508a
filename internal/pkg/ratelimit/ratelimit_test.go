package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLocalWindowAdmitsUpToLimit(t *testing.T) {
	l := New(nil, "test")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res := l.Hit(ctx, "ip-a", 5, time.Minute)
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
		if res.Remaining != 5-(i+1) {
			t.Fatalf("hit %d remaining = %d, want %d", i+1, res.Remaining, 5-(i+1))
		}
	}

	res := l.Hit(ctx, "ip-a", 5, time.Minute)
	if res.Allowed {
		t.Fatal("sixth hit should be rejected")
	}
	if res.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", res.Remaining)
	}
}

func TestLocalWindowIsPerKey(t *testing.T) {
	l := New(nil, "test")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.Hit(ctx, "ip-a", 3, time.Minute)
	}
	if res := l.Hit(ctx, "ip-a", 3, time.Minute); res.Allowed {
		t.Fatal("ip-a should be exhausted")
	}
	if res := l.Hit(ctx, "ip-b", 3, time.Minute); !res.Allowed {
		t.Fatal("ip-b should be unaffected")
	}
}

func TestLocalWindowResets(t *testing.T) {
	l := New(nil, "test")
	ctx := context.Background()

	l.Hit(ctx, "ip-a", 1, 10*time.Millisecond)
	if res := l.Hit(ctx, "ip-a", 1, 10*time.Millisecond); res.Allowed {
		t.Fatal("second hit inside window should be rejected")
	}

	time.Sleep(15 * time.Millisecond)
	if res := l.Hit(ctx, "ip-a", 1, 10*time.Millisecond); !res.Allowed {
		t.Fatal("hit after window expiry should be allowed")
	}
}
