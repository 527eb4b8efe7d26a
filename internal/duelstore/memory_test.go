package duelstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/testing/leaktest"
)

func newTestSession() *domain.DuelSession {
	return &domain.DuelSession{
		ID:           uuid.New(),
		ChallengerID: uuid.New(),
		OpponentID:   uuid.New(),
		DeckID:       uuid.New(),
		Status:       domain.DuelStatusPending,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// collector records every snapshot a subscription delivers.
type collector struct {
	mu        sync.Mutex
	snapshots []*domain.DuelSession
	notify    chan struct{}
}

func newCollector() *collector {
	return &collector{notify: make(chan struct{}, 64)}
}

func (c *collector) fn(session *domain.DuelSession) {
	c.mu.Lock()
	c.snapshots = append(c.snapshots, session)
	c.mu.Unlock()
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *collector) waitFor(t *testing.T, pred func(*domain.DuelSession) bool) *domain.DuelSession {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		c.mu.Lock()
		for _, s := range c.snapshots {
			if pred(s) {
				c.mu.Unlock()
				return s
			}
		}
		c.mu.Unlock()

		select {
		case <-c.notify:
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	session := newTestSession()
	id, err := store.Create(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, session.ID, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.ChallengerID, got.ChallengerID)
	assert.Equal(t, domain.DuelStatusPending, got.Status)
}

func TestMemoryStore_GetUnknownDuel(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrDuelNotFound)
}

func TestMemoryStore_GetReturnsSnapshot(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	session := newTestSession()
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	first, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	first.Status = domain.DuelStatusCompleted

	second, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DuelStatusPending, second.Status)
}

func TestMemoryStore_PatchMergesLeafFields(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	session := newTestSession()
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	// Challenger submits an answer
	answer := domain.SwipeAnswer(domain.SwipeHit)
	err = store.Patch(ctx, session.ID, OwnSubmission(session.ChallengerID, 20, 10, answer))
	require.NoError(t, err)

	// Opponent's referee verdict on a disjoint entry
	err = store.Patch(ctx, session.ID, Verdict(session.OpponentID, 85, 8, domain.JudgmentWrong))
	require.NoError(t, err)

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)

	cStats, ok := got.Stats(session.ChallengerID)
	require.True(t, ok)
	assert.Equal(t, 20, cStats.Progress)
	assert.Equal(t, 10, cStats.CurrentScore)
	require.NotNil(t, cStats.CurrentAnswer)
	assert.Equal(t, domain.SwipeHit, cStats.CurrentAnswer.Outcome)
	assert.Equal(t, domain.JudgmentPending, cStats.Judgment)

	oStats, ok := got.Stats(session.OpponentID)
	require.True(t, ok)
	assert.Equal(t, 85, oStats.HP)
	assert.Equal(t, 8, oStats.CurrentScore)
	assert.Equal(t, domain.JudgmentWrong, oStats.Judgment)
	// Progress on the opponent entry was never written by the verdict
	assert.Equal(t, 0, oStats.Progress)
}

func TestMemoryStore_ConcurrentDisjointPatchesCommute(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	session := newTestSession()
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 50; i++ {
			progress := i * 2
			_ = store.Patch(ctx, session.ID, OwnAdvance(session.ChallengerID, progress, i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 1; i <= 50; i++ {
			_ = store.Patch(ctx, session.ID, Verdict(session.OpponentID, 100-i, i, domain.JudgmentCorrect))
		}
	}()
	wg.Wait()

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)

	cStats, _ := got.Stats(session.ChallengerID)
	oStats, _ := got.Stats(session.OpponentID)
	assert.Equal(t, 100, cStats.Progress)
	assert.Equal(t, 50, cStats.CurrentScore)
	assert.Equal(t, 50, oStats.HP)
	assert.Equal(t, 50, oStats.CurrentScore)
}

func TestMemoryStore_SubscribeDeliversInitialAndUpdates(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	store := NewMemoryStore()
	ctx := context.Background()

	session := newTestSession()
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	col := newCollector()
	unsubscribe, err := store.Subscribe(session.ID, col.fn)
	require.NoError(t, err)

	// Initial snapshot arrives without any patch
	col.waitFor(t, func(s *domain.DuelSession) bool {
		return s.Status == domain.DuelStatusPending
	})

	active := domain.DuelStatusActive
	err = store.Patch(ctx, session.ID, Patch{Status: &active})
	require.NoError(t, err)

	col.waitFor(t, func(s *domain.DuelSession) bool {
		return s.Status == domain.DuelStatusActive
	})

	unsubscribe()
	unsubscribe() // idempotent
	store.Close()

	checker.Check(2)
}

func TestMemoryStore_SubscribeUnknownDuel(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	_, err := store.Subscribe(uuid.New(), func(*domain.DuelSession) {})
	assert.ErrorIs(t, err, domain.ErrDuelNotFound)
}

func TestMemoryStore_WriterSeesOwnEcho(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	session := newTestSession()
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	col := newCollector()
	unsubscribe, err := store.Subscribe(session.ID, col.fn)
	require.NoError(t, err)
	defer unsubscribe()

	err = store.Patch(ctx, session.ID, OwnAdvance(session.ChallengerID, 40, 18))
	require.NoError(t, err)

	snap := col.waitFor(t, func(s *domain.DuelSession) bool {
		stats, ok := s.Stats(session.ChallengerID)
		return ok && stats.Progress == 40
	})
	stats, _ := snap.Stats(session.ChallengerID)
	assert.Equal(t, 18, stats.CurrentScore)
}

func TestMemoryStore_UnavailableRejectsWrites(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	session := newTestSession()
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	store.SetAvailable(false)

	err = store.Patch(ctx, session.ID, OwnAdvance(session.ChallengerID, 10, 4))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = store.Create(ctx, newTestSession())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestMemoryStore_ReconnectRedeliversCurrentDocument(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	session := newTestSession()
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	col := newCollector()
	unsubscribe, err := store.Subscribe(session.ID, col.fn)
	require.NoError(t, err)
	defer unsubscribe()

	col.waitFor(t, func(s *domain.DuelSession) bool { return true })

	store.SetAvailable(false)
	store.SetAvailable(true)

	// The current document arrives again after the link comes back
	col.waitFor(t, func(s *domain.DuelSession) bool {
		return s.ID == session.ID
	})
}

func TestMemoryStore_PatchInitializesMissingStatsEntry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	session := newTestSession()
	_, err := store.Create(ctx, session)
	require.NoError(t, err)

	// A verdict for an entry that was never initialized starts from the
	// default battle state.
	err = store.Patch(ctx, session.ID, Verdict(session.OpponentID, 85, 0, domain.JudgmentWrong))
	require.NoError(t, err)

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	stats, ok := got.Stats(session.OpponentID)
	require.True(t, ok)
	assert.Equal(t, 85, stats.HP)
	assert.False(t, stats.LastUpdate.IsZero())
}
