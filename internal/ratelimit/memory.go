package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionWindow holds the FIFO timestamp queue for one session. Exclusive
// access is required during the prune+decide step.
type sessionWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// MemoryLimiter is the default in-process sliding-window limiter. Per-session
// state is created lazily on first request in a process-wide map.
type MemoryLimiter struct {
	limit int

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionWindow
}

func NewMemoryLimiter(maxRequestsPerMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    maxRequestsPerMinute,
		sessions: make(map[uuid.UUID]*sessionWindow),
	}
}

func (l *MemoryLimiter) Check(ctx context.Context, sessionID uuid.UUID) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	win := l.windowFor(sessionID)

	win.mu.Lock()
	defer win.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	pruned := win.timestamps[:0]
	for _, ts := range win.timestamps {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}
	win.timestamps = pruned

	if len(win.timestamps) >= l.limit {
		oldest := win.timestamps[0]
		retryAfter := oldest.Add(window).Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return Result{Allowed: false, Remaining: 0, Limit: l.limit, RetryAfter: retryAfter}, nil
	}

	win.timestamps = append(win.timestamps, now)
	remaining := l.limit - len(win.timestamps)

	return Result{Allowed: true, Remaining: remaining, Limit: l.limit}, nil
}

func (l *MemoryLimiter) windowFor(sessionID uuid.UUID) *sessionWindow {
	l.mu.Lock()
	win, ok := l.sessions[sessionID]
	if !ok {
		win = &sessionWindow{}
		l.sessions[sessionID] = win
	}
	l.mu.Unlock()
	return win
}
