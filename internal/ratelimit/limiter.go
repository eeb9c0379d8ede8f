// Package ratelimit implements a sliding-window request limiter keyed by
// client fingerprint. State is process-local and memory-only: quotas reset
// on restart, which is acceptable for abuse mitigation.
package ratelimit

import (
	"hash/fnv"
	"sync"
	"time"
)

// shardCount spreads fingerprints over independent locks so distinct clients
// do not contend. Must be a power of two.
const shardCount = 16

// Limiter admits or rejects requests per fingerprint within a rolling window.
type Limiter struct {
	max    int
	window time.Duration
	now    func() time.Time
	shards [shardCount]shard
}

type shard struct {
	mu      sync.Mutex
	clients map[string][]time.Time
}

// New creates a Limiter allowing max requests per fingerprint inside the
// trailing window.
func New(max int, window time.Duration) *Limiter {
	l := &Limiter{max: max, window: window, now: time.Now}
	for i := range l.shards {
		l.shards[i].clients = make(map[string][]time.Time)
	}
	return l
}

// Max returns the configured request ceiling.
func (l *Limiter) Max() int { return l.max }

// Window returns the sliding window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Admit reports whether a request from the fingerprint may proceed, and
// records it if so. Timestamps older than the window are pruned first; the
// check-then-record sequence runs under the shard lock, so two concurrent
// requests can never both claim the last slot.
func (l *Limiter) Admit(fingerprint string) bool {
	s := l.shardFor(fingerprint)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := l.now()
	kept := prune(s.clients[fingerprint], now, l.window)
	if len(kept) >= l.max {
		s.clients[fingerprint] = kept
		return false
	}

	s.clients[fingerprint] = append(kept, now)
	return true
}

// Remaining reports how many requests the fingerprint has left in the
// current window. It prunes but never records, so calling it consumes no
// quota. An unknown fingerprint has the full quota.
func (l *Limiter) Remaining(fingerprint string) int {
	s := l.shardFor(fingerprint)
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := prune(s.clients[fingerprint], l.now(), l.window)
	s.clients[fingerprint] = kept

	remaining := l.max - len(kept)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *Limiter) shardFor(fingerprint string) *shard {
	h := fnv.New32a()
	h.Write([]byte(fingerprint))
	return &l.shards[h.Sum32()&(shardCount-1)]
}

// prune drops timestamps that have fallen out of the window.
func prune(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	kept := stamps[:0]
	for _, ts := range stamps {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	return kept
}
