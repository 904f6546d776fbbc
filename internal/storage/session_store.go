package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	apperrors "github.com/thornfield-systems/behavior-guard/internal/domain/errors"
)

// InMemorySessionStore is the default process-lifetime SessionStore.
// Safe for concurrent use; protected by a single RWMutex since sessions
// are small and rarely contended relative to signal appends.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[uuid.UUID]*model.Session),
	}
}

func (s *InMemorySessionStore) Create(ctx context.Context, req model.CreateSessionRequest) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:                uuid.New(),
		ClientID:          req.ClientID,
		DeviceFingerprint: req.DeviceFingerprint,
		CreatedAt:         time.Now().UTC(),
		Metadata:          req.Metadata,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

func (s *InMemorySessionStore) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *InMemorySessionStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	_, ok := s.sessions[id]
	s.mu.RUnlock()
	return ok, nil
}

func (s *InMemorySessionStore) Complete(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, apperrors.ErrSessionNotFound
	}
	now := time.Now().UTC()
	session.CompletedAt = &now
	copied := *session
	s.mu.Unlock()

	return &copied, nil
}

func (s *InMemorySessionStore) ListByClient(ctx context.Context, clientID string, limit int) ([]*model.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matches := make([]*model.Session, 0)
	for _, session := range s.sessions {
		if session.ClientID == clientID {
			copied := *session
			matches = append(matches, &copied)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
