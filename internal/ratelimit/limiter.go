// Package ratelimit provides a sliding-window request admission gate
// keyed by client identity.
package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/datenschutzportal/auditcore/internal/common"
)

// Window is the sliding admission interval.
const Window = time.Minute

// defaultMaxIdentities bounds the identity map so a long-lived process
// cannot grow it without limit. Eviction drops the least recently
// active identity, which at this size is one with no live timestamps.
const defaultMaxIdentities = 4096

// Limiter admits at most Limit requests per identity per Window.
// In-memory, single-process, best-effort: it resets on restart and does
// not coordinate across instances. Use one Limiter per expensive
// operation.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	seen   *lru.Cache[string, []time.Time]
	now    func() time.Time
	logger *slog.Logger
}

// NewLimiter creates a limiter admitting requestsPerMinute calls per
// identity per minute.
func NewLimiter(requestsPerMinute int, logger *slog.Logger) *Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, []time.Time](defaultMaxIdentities)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(fmt.Sprintf("ratelimit: %v", err))
	}
	return &Limiter{
		limit:  requestsPerMinute,
		seen:   cache,
		now:    time.Now,
		logger: logger,
	}
}

// Admit checks and records one request for identity. Timestamps older
// than the window are pruned lazily on each call; identities left with
// nothing are evicted. Returns common.ErrRateLimited on denial. The
// whole check-and-record sequence runs under one lock so simultaneous
// requests from the same identity cannot race.
func (l *Limiter) Admit(identity string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-Window)

	recent, _ := l.seen.Get(identity)
	live := recent[:0]
	for _, ts := range recent {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) >= l.limit {
		// Keep the pruned window; the denied request is not recorded.
		l.seen.Add(identity, live)
		l.logger.Warn("ratelimit.denied", "identity", identity, "recent", len(live), "limit", l.limit)
		return fmt.Errorf("identity %s: %w", identity, common.ErrRateLimited)
	}

	live = append(live, now)
	l.seen.Add(identity, live)
	return nil
}

// Remaining reports how many requests identity could still make in the
// current window. Read-only apart from the lazy prune.
func (l *Limiter) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-Window)
	recent, _ := l.seen.Get(identity)
	live := recent[:0]
	for _, ts := range recent {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}
	if len(live) == 0 {
		// Identity went quiet; drop it so the map only holds active ones.
		l.seen.Remove(identity)
	} else {
		l.seen.Add(identity, live)
	}
	if len(live) >= l.limit {
		return 0
	}
	return l.limit - len(live)
}

// WithClock substitutes the time source. Test hook.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}
