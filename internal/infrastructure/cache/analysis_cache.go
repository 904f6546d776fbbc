// Package cache provides a Redis read-through cache for completed fraud
// analyses, sitting in front of the analysis store.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/storage"
)

const keyPrefix = "bg:analysis:"

// AnalysisCache decorates a storage.AnalysisStore with a Redis
// read-through cache. Reads check Redis first and fall back to the
// underlying store on a miss; writes go to the underlying store first and
// are mirrored into Redis afterward, so a Redis outage degrades to the
// store directly rather than losing a completed verdict.
type AnalysisCache struct {
	next   storage.AnalysisStore
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewAnalysisCache wraps next with a Redis cache reachable through client.
// A non-positive ttl falls back to a 15 minute default.
func NewAnalysisCache(client *redis.Client, logger *zap.Logger, next storage.AnalysisStore, ttl time.Duration) *AnalysisCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &AnalysisCache{next: next, client: client, logger: logger, ttl: ttl}
}

func (c *AnalysisCache) key(sessionID uuid.UUID) string {
	return keyPrefix + sessionID.String()
}

// Save writes through to the underlying store and mirrors the result into
// Redis. A cache-write failure is logged, not returned, since the
// authoritative write already succeeded.
func (c *AnalysisCache) Save(ctx context.Context, analysis *model.FraudAnalysis) error {
	if err := c.next.Save(ctx, analysis); err != nil {
		return err
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		c.logger.Error("analysis cache marshal failed", zap.String("session_id", analysis.SessionID.String()), zap.Error(err))
		return nil
	}

	if err := c.client.Set(ctx, c.key(analysis.SessionID), data, c.ttl).Err(); err != nil {
		c.logger.Error("analysis cache set failed", zap.String("session_id", analysis.SessionID.String()), zap.Error(err))
	}
	return nil
}

// GetBySession checks Redis before falling back to the underlying store,
// backfilling Redis on a store hit so the next read is served from cache.
func (c *AnalysisCache) GetBySession(ctx context.Context, sessionID uuid.UUID) (*model.FraudAnalysis, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Bytes()
	if err == nil {
		var analysis model.FraudAnalysis
		if jsonErr := json.Unmarshal(data, &analysis); jsonErr == nil {
			return &analysis, nil
		}
		c.logger.Error("analysis cache unmarshal failed", zap.String("session_id", sessionID.String()), zap.Error(err))
	} else if err != redis.Nil {
		c.logger.Error("analysis cache get failed", zap.String("session_id", sessionID.String()), zap.Error(err))
	}

	analysis, err := c.next.GetBySession(ctx, sessionID)
	if err != nil || analysis == nil {
		return analysis, err
	}

	if data, marshalErr := json.Marshal(analysis); marshalErr == nil {
		if setErr := c.client.Set(ctx, c.key(sessionID), data, c.ttl).Err(); setErr != nil {
			c.logger.Error("analysis cache backfill failed", zap.String("session_id", sessionID.String()), zap.Error(setErr))
		}
	}
	return analysis, nil
}

// Exists is served from the underlying store directly; it's a cheap
// boolean check that doesn't benefit from a JSON round trip through Redis.
func (c *AnalysisCache) Exists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	return c.next.Exists(ctx, sessionID)
}
