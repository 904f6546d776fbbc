package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

// InMemoryAnalysisStore keeps at most one analysis per session; Save
// overwrites any prior analysis (last-writer-wins).
type InMemoryAnalysisStore struct {
	mu        sync.RWMutex
	bySession map[uuid.UUID]*model.FraudAnalysis
}

func NewInMemoryAnalysisStore() *InMemoryAnalysisStore {
	return &InMemoryAnalysisStore{
		bySession: make(map[uuid.UUID]*model.FraudAnalysis),
	}
}

func (s *InMemoryAnalysisStore) Save(ctx context.Context, analysis *model.FraudAnalysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	copied := *analysis
	s.mu.Lock()
	s.bySession[analysis.SessionID] = &copied
	s.mu.Unlock()
	return nil
}

func (s *InMemoryAnalysisStore) GetBySession(ctx context.Context, sessionID uuid.UUID) (*model.FraudAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	analysis, ok := s.bySession[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	copied := *analysis
	return &copied, nil
}

func (s *InMemoryAnalysisStore) Exists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	_, ok := s.bySession[sessionID]
	s.mu.RUnlock()
	return ok, nil
}
