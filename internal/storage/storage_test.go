package storage_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
	"github.com/thornfield-systems/behavior-guard/internal/storage"
)

func TestSessionStore_CreateGetComplete(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemorySessionStore()

	session, err := store.Create(ctx, model.CreateSessionRequest{
		ClientID:          "client-1",
		DeviceFingerprint: "fp-1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.Nil(t, session.CompletedAt)

	fetched, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ClientID, fetched.ClientID)

	exists, err := store.Exists(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	completed, err := store.Complete(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assert.True(t, !completed.CompletedAt.Before(completed.CreatedAt))

	// Completing twice is allowed and refreshes the timestamp.
	completedAgain, err := store.Complete(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, !completedAgain.CompletedAt.Before(*completed.CompletedAt))
}

func TestSessionStore_GetUnknown(t *testing.T) {
	store := storage.NewInMemorySessionStore()
	_, err := store.Get(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestSignalStore_AppendAndReadSortedAscending(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemorySignalStore()
	sessionID := uuid.New()

	base := time.Now().UTC()
	signals := []model.Signal{
		{ID: uuid.New(), SessionID: sessionID, Type: model.SignalMouseMove, Timestamp: base.Add(2 * time.Second)},
		{ID: uuid.New(), SessionID: sessionID, Type: model.SignalMouseMove, Timestamp: base},
		{ID: uuid.New(), SessionID: sessionID, Type: model.SignalMouseMove, Timestamp: base.Add(1 * time.Second)},
	}

	require.NoError(t, store.Append(ctx, sessionID, signals))

	read, err := store.GetBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, read, 3)
	assert.True(t, read[0].Timestamp.Before(read[1].Timestamp))
	assert.True(t, read[1].Timestamp.Before(read[2].Timestamp))

	count, err := store.CountBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSignalStore_ConcurrentAppendsNoLostWrites(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemorySignalStore()
	sessionID := uuid.New()

	const batches = 50
	var wg sync.WaitGroup
	for i := 0; i < batches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Append(ctx, sessionID, []model.Signal{
				{ID: uuid.New(), SessionID: sessionID, Type: model.SignalMouseMove, Timestamp: time.Now().UTC()},
			})
		}()
	}
	wg.Wait()

	count, err := store.CountBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, batches, count)
}

func TestAnalysisStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemoryAnalysisStore()
	sessionID := uuid.New()

	first := &model.FraudAnalysis{SessionID: sessionID, Verdict: model.VerdictAllow, ConfidenceScore: 0.1}
	require.NoError(t, store.Save(ctx, first))

	second := &model.FraudAnalysis{SessionID: sessionID, Verdict: model.VerdictBlock, ConfidenceScore: 0.9}
	require.NoError(t, store.Save(ctx, second))

	got, err := store.GetBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictBlock, got.Verdict)

	exists, err := store.Exists(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAnalysisStore_GetBySessionMissingReturnsNilNoError(t *testing.T) {
	store := storage.NewInMemoryAnalysisStore()
	got, err := store.GetBySession(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}
