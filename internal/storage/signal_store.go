package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

// InMemorySignalStore keeps an append-only list of signals per session,
// all guarded by one store-wide RWMutex: an append to any session briefly
// excludes reads of every session.
type InMemorySignalStore struct {
	mu      sync.RWMutex
	bySess  map[uuid.UUID][]model.Signal
}

func NewInMemorySignalStore() *InMemorySignalStore {
	return &InMemorySignalStore{
		bySess: make(map[uuid.UUID][]model.Signal),
	}
}

// Append commits the batch atomically with respect to concurrent count/get
// calls: the lock is held for the whole append so no partial batch is observable.
func (s *InMemorySignalStore) Append(ctx context.Context, sessionID uuid.UUID, signals []model.Signal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.bySess[sessionID] = append(s.bySess[sessionID], signals...)
	s.mu.Unlock()
	return nil
}

func (s *InMemorySignalStore) GetBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	existing := s.bySess[sessionID]
	out := make([]model.Signal, len(existing))
	copy(out, existing)
	s.mu.RUnlock()

	sortByTimestamp(out)
	return out, nil
}

func (s *InMemorySignalStore) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	n := len(s.bySess[sessionID])
	s.mu.RUnlock()
	return n, nil
}

func (s *InMemorySignalStore) GetBySessionAndType(ctx context.Context, sessionID uuid.UUID, signalType model.SignalType) ([]model.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	existing := s.bySess[sessionID]
	out := make([]model.Signal, 0, len(existing))
	for _, sig := range existing {
		if sig.Type == signalType {
			out = append(out, sig)
		}
	}
	s.mu.RUnlock()

	sortByTimestamp(out)
	return out, nil
}

func (s *InMemorySignalStore) GetBySessionAndTimeRange(ctx context.Context, sessionID uuid.UUID, start, end time.Time) ([]model.Signal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	existing := s.bySess[sessionID]
	out := make([]model.Signal, 0, len(existing))
	for _, sig := range existing {
		if !sig.Timestamp.Before(start) && !sig.Timestamp.After(end) {
			out = append(out, sig)
		}
	}
	s.mu.RUnlock()

	sortByTimestamp(out)
	return out, nil
}

func sortByTimestamp(signals []model.Signal) {
	sort.Slice(signals, func(i, j int) bool {
		return signals[i].Timestamp.Before(signals[j].Timestamp)
	})
}
