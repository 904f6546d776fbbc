package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "bg:ratelimit:"

// RedisLimiter implements the same sliding-window admission contract as
// MemoryLimiter, backed by a Redis sorted set per session so the limit is
// enforced across every instance of the service rather than per-process.
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
	limit  int
}

func NewRedisLimiter(client *redis.Client, logger *zap.Logger, maxRequestsPerMinute int) *RedisLimiter {
	return &RedisLimiter{client: client, logger: logger, limit: maxRequestsPerMinute}
}

func (l *RedisLimiter) Check(ctx context.Context, sessionID uuid.UUID) (Result, error) {
	now := time.Now()
	cutoff := now.Add(-window)
	key := keyPrefix + sessionID.String()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	oldestCmd := pipe.ZRangeWithScores(ctx, key, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("rate limiter pipeline failed", zap.String("session_id", sessionID.String()), zap.Error(err))
		return Result{}, fmt.Errorf("rate limiter pipeline failed: %w", err)
	}

	count := countCmd.Val()
	if count >= int64(l.limit) {
		retryAfter := time.Second
		if oldest := oldestCmd.Val(); len(oldest) > 0 {
			oldestTime := time.Unix(0, int64(oldest[0].Score))
			if d := oldestTime.Add(window).Sub(now); d > retryAfter {
				retryAfter = d
			}
		}
		return Result{Allowed: false, Remaining: 0, Limit: l.limit, RetryAfter: retryAfter}, nil
	}

	member := fmt.Sprintf("%d-%d", now.UnixNano(), now.Nanosecond()%1000)
	pipe = l.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, key, window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("rate limiter admit failed", zap.String("session_id", sessionID.String()), zap.Error(err))
		return Result{}, fmt.Errorf("rate limiter admit failed: %w", err)
	}

	return Result{Allowed: true, Remaining: l.limit - int(count) - 1, Limit: l.limit}, nil
}
