// Package ratelimit implements per-session sliding-window admission control.
package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const window = 60 * time.Second

// Result is the outcome of one admission check.
type Result struct {
	Allowed    bool
	Remaining  int
	Limit      int
	RetryAfter time.Duration
}

// Limiter admits or denies a request for a given session.
type Limiter interface {
	Check(ctx context.Context, sessionID uuid.UUID) (Result, error)
}
