// Package ratelimit provides a lightweight, in-memory, token-bucket limiter
// with per-identity buckets and opportunistic garbage collection. The
// orchestrator keys it by channel user ID to shed message floods before any
// model cost is incurred.
//
// Notes:
//   - The limiter is process-local; this deployment is single-process by
//     design, so no distributed coordination is attempted.
//   - It is an abuse/cost control, not an authorization mechanism.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor holds a single rate limiter and the last time it was seen.
// Used to opportunistically evict idle buckets.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed is a per-key token-bucket limiter.
//
// Buckets are created on demand and stored in an internal map guarded by a
// mutex. Idle buckets are evicted after a TTL via opportunistic cleanup
// during lookups to keep memory usage bounded.
//
// This type is safe for concurrent use.
type Keyed struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewKeyed constructs a limiter with the given tokens-per-second and burst
// size. A burst <= 0 is coerced to 1; an rps <= 0 disables limiting
// entirely (Allow always returns true).
func NewKeyed(rps float64, burst int) *Keyed {
	if burst <= 0 {
		burst = 1
	}
	return &Keyed{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute, // evict idle entries after TTL
	}
}

// Allow reports whether the identity may proceed, consuming one token.
func (k *Keyed) Allow(key string) bool {
	if k.rps <= 0 {
		return true
	}
	return k.getVisitor(key).Allow()
}

// getVisitor returns (and updates) the limiter for key, creating it if
// absent. It also performs opportunistic GC of idle entries after ~5000
// lookups. GC runs before touching the requested visitor so an "old" bucket
// can be evicted even when it is the one being fetched.
func (k *Keyed) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	k.mu.Lock()
	k.cleanupN++
	if k.cleanupN >= 5000 {
		for id, vv := range k.visitors {
			if now.Sub(vv.lastSeen) >= k.ttl {
				delete(k.visitors, id)
			}
		}
		k.cleanupN = 0
	}

	if v, ok := k.visitors[key]; ok {
		v.lastSeen = now
		lim := v.limiter
		k.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(k.rps, k.burst)
	k.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	k.mu.Unlock()
	return lim
}
