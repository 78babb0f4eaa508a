package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	redispkg "github.com/chitragar/portfolio-core/internal/pkg/redis"
)

// Result reports whether a hit was admitted and how much quota remains.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is a fixed-window counter shared across instances via Redis.
// When Redis is unavailable it degrades to a process-local window so a
// cache outage never takes the write path down with it.
type Limiter struct {
	rdb    *redispkg.Client
	prefix string

	mu    sync.Mutex
	local map[string]*localWindow
}

type localWindow struct {
	count   int
	resetAt time.Time
}

// New creates a limiter. rdb may be nil, in which case only the local
// fallback is used.
func New(rdb *redispkg.Client, prefix string) *Limiter {
	if prefix == "" {
		prefix = "pc:rate"
	}
	return &Limiter{
		rdb:    rdb,
		prefix: prefix,
		local:  make(map[string]*localWindow),
	}
}

// Hit records one request for key and reports whether it is within
// limit per window.
func (l *Limiter) Hit(ctx context.Context, key string, limit int, window time.Duration) Result {
	if l.rdb != nil {
		if res, ok := l.hitRedis(ctx, key, limit, window); ok {
			return res
		}
	}
	return l.hitLocal(key, limit, window)
}

func (l *Limiter) hitRedis(ctx context.Context, key string, limit int, window time.Duration) (Result, bool) {
	rkey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.rdb.Incr(ctx, rkey)
	if err != nil {
		return Result{}, false
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, rkey, window); err != nil {
			return Result{}, false
		}
	}

	resetAt := time.Now().Add(window)
	if ttl, err := l.rdb.TTL(ctx, rkey); err == nil && ttl > 0 {
		resetAt = time.Now().Add(ttl)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, true
}

func (l *Limiter) hitLocal(key string, limit int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w := l.local[key]
	if w == nil || now.After(w.resetAt) {
		w = &localWindow{resetAt: now.Add(window)}
		l.local[key] = w
	}
	w.count++

	// Opportunistic cleanup so the map does not grow without bound.
	if len(l.local) > 4096 {
		for k, v := range l.local {
			if now.After(v.resetAt) {
				delete(l.local, k)
			}
		}
	}

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   w.count <= limit,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}
}
