// Package storage defines the concurrent-safe storage contracts the
// ingestion core operates over, and an in-memory implementation of each.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

// SessionStore owns sessions, keyed by ID.
type SessionStore interface {
	Create(ctx context.Context, req model.CreateSessionRequest) (*model.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Complete sets completedAt to now, idempotent on repeat but updates the timestamp.
	Complete(ctx context.Context, id uuid.UUID) (*model.Session, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]*model.Session, error)
}

// SignalStore owns signals, partitioned by sessionID.
type SignalStore interface {
	Append(ctx context.Context, sessionID uuid.UUID, signals []model.Signal) error
	GetBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Signal, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error)
	GetBySessionAndType(ctx context.Context, sessionID uuid.UUID, signalType model.SignalType) ([]model.Signal, error)
	GetBySessionAndTimeRange(ctx context.Context, sessionID uuid.UUID, start, end time.Time) ([]model.Signal, error)
}

// AnalysisStore owns analyses, keyed by sessionID. Save is last-writer-wins.
type AnalysisStore interface {
	Save(ctx context.Context, analysis *model.FraudAnalysis) error
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*model.FraudAnalysis, error)
	Exists(ctx context.Context, sessionID uuid.UUID) (bool, error)
}
