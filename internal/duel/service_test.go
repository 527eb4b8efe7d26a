package duel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/duelstore"
	"github.com/rcsinavim/arena/internal/event"
	"github.com/rcsinavim/arena/internal/rewards"
)

type testFixture struct {
	svc     Service
	repo    *mockDuelRepo
	users   *mockUserRepo
	decks   *mockDeckService
	rewards *mockRewardsService
	store   *duelstore.MemoryStore
	bus     *event.MemoryBus
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		repo:    &mockDuelRepo{},
		users:   &mockUserRepo{},
		decks:   &mockDeckService{},
		rewards: &mockRewardsService{},
		store:   duelstore.NewMemoryStore(),
		bus:     event.NewMemoryBus(),
	}
	t.Cleanup(f.store.Close)
	f.svc = NewService(f.repo, f.users, f.decks, f.store, f.rewards, f.bus, time.Hour)
	return f
}

func (f *testFixture) countEvents(eventType event.Type) *atomic.Int32 {
	var n atomic.Int32
	f.bus.Subscribe(eventType, func(context.Context, event.Event) error {
		n.Add(1)
		return nil
	})
	return &n
}

func testDeck() *domain.Deck {
	return &domain.Deck{
		ID:        uuid.New(),
		CreatorID: uuid.New(),
		Title:     "Osmanlı Tarihi",
		Subject:   "Tarih",
		Cards: []domain.Card{
			{Front: "İstanbul'un fethi", Back: "1453", Subject: "Tarih"},
			{Front: "Tanzimat Fermanı", Back: "1839", Subject: "Tarih"},
		},
		IsPublic:  true,
		CreatedAt: time.Now(),
	}
}

func seedSession(t *testing.T, f *testFixture, deckID uuid.UUID, status domain.DuelStatus) *domain.DuelSession {
	t.Helper()
	session := &domain.DuelSession{
		ID:           uuid.New(),
		ChallengerID: uuid.New(),
		OpponentID:   uuid.New(),
		DeckID:       deckID,
		Status:       status,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	_, err := f.store.Create(context.Background(), session)
	require.NoError(t, err)
	return session
}

func TestChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deck := testDeck()
	challenged := f.countEvents(event.DuelChallenged)

	challengerID, opponentID := uuid.New(), uuid.New()
	f.decks.On("GetDeck", mock.Anything, deck.ID).Return(deck, nil)
	f.repo.On("CreateDuel", mock.Anything, mock.Anything).Return(nil)

	session, err := f.svc.Challenge(ctx, challengerID, opponentID, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DuelStatusPending, session.Status)
	assert.Equal(t, challengerID, session.ChallengerID)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))

	// The live document exists alongside the durable record
	doc, err := f.store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.ID, doc.DeckID)

	assert.Equal(t, int32(1), challenged.Load())
	f.repo.AssertExpectations(t)
}

func TestChallenge_Self(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	_, err := f.svc.Challenge(context.Background(), userID, userID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSelfChallenge)
	f.repo.AssertNotCalled(t, "CreateDuel", mock.Anything, mock.Anything)
}

func TestChallenge_DeckMissing(t *testing.T) {
	f := newFixture(t)
	deckID := uuid.New()
	f.decks.On("GetDeck", mock.Anything, deckID).Return(nil, domain.ErrDeckNotFound)

	_, err := f.svc.Challenge(context.Background(), uuid.New(), uuid.New(), deckID)
	assert.ErrorIs(t, err, domain.ErrDeckNotFound)
}

func TestJoin_ActivatesWhenBothJoined(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deck := testDeck()
	started := f.countEvents(event.DuelStarted)
	session := seedSession(t, f, deck.ID, domain.DuelStatusPending)

	f.decks.On("GetDeck", mock.Anything, deck.ID).Return(deck, nil)
	f.repo.On("UpdateDuelStatus", mock.Anything, session.ID, domain.DuelStatusActive).Return(nil).Once()

	joined, deckData, err := f.svc.Join(ctx, session.ID, session.ChallengerID)
	require.NoError(t, err)
	assert.Equal(t, domain.DuelStatusPending, joined.Status)
	assert.Len(t, deckData.Cards, 2)
	stats, ok := joined.Stats(session.ChallengerID)
	require.True(t, ok)
	assert.Equal(t, domain.MaxHP, stats.HP)

	joined, _, err = f.svc.Join(ctx, session.ID, session.OpponentID)
	require.NoError(t, err)
	assert.Equal(t, domain.DuelStatusActive, joined.Status)
	assert.True(t, joined.BothJoined())
	assert.Equal(t, int32(1), started.Load())

	// Rejoining after activation initializes nothing and keeps the status
	joined, _, err = f.svc.Join(ctx, session.ID, session.ChallengerID)
	require.NoError(t, err)
	assert.Equal(t, domain.DuelStatusActive, joined.Status)
	f.repo.AssertExpectations(t)
}

func TestJoin_NotAParticipant(t *testing.T) {
	f := newFixture(t)
	session := seedSession(t, f, uuid.New(), domain.DuelStatusPending)

	_, _, err := f.svc.Join(context.Background(), session.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotAParticipant)
}

func TestJoin_CompletedDuel(t *testing.T) {
	f := newFixture(t)
	session := seedSession(t, f, uuid.New(), domain.DuelStatusCompleted)

	_, _, err := f.svc.Join(context.Background(), session.ID, session.ChallengerID)
	assert.ErrorIs(t, err, domain.ErrDuelCompleted)
}

func TestJoin_UnknownDuel(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Join(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrDuelNotFound)
}

func TestComplete_FirstReportSettlesRewardsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := seedSession(t, f, uuid.New(), domain.DuelStatusActive)
	result := domain.DuelResult{Score: 40, CorrectCount: 4, TotalCount: 5, TimeSpent: 90}

	f.repo.On("SaveResult", mock.Anything, session.ID, session.ChallengerID, mock.Anything).Return(nil)
	f.rewards.On("AwardXP", mock.Anything, session.ChallengerID, BaseReward+40, rewards.ActionDuelWin).Return(nil)
	f.rewards.On("RecordAction", mock.Anything, session.ChallengerID, rewards.ActionDuelWin, 40).Return(nil)

	require.NoError(t, f.svc.Complete(ctx, session.ID, session.ChallengerID, result))

	// One result and no 0-HP entry is not terminal
	f.repo.AssertNotCalled(t, "CompleteDuel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	doc, err := f.store.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Contains(t, doc.Results, session.ChallengerID.String())
	assert.Equal(t, 40, doc.Results[session.ChallengerID.String()].Score)
	assert.Equal(t, domain.DuelStatusActive, doc.Status)
	f.rewards.AssertExpectations(t)
}

func TestComplete_SecondReportFinalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := seedSession(t, f, uuid.New(), domain.DuelStatusActive)
	completed := f.countEvents(event.DuelCompleted)

	// The opponent reported first with the lower score
	oppResult := domain.DuelResult{Score: 20, SubmittedAt: time.Now()}
	require.NoError(t, f.store.Patch(ctx, session.ID, duelstore.Patch{
		Results: map[string]*domain.DuelResult{session.OpponentID.String(): &oppResult},
	}))

	f.repo.On("SaveResult", mock.Anything, session.ID, session.ChallengerID, mock.Anything).Return(nil)
	f.rewards.On("AwardXP", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.rewards.On("RecordAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repo.On("CompleteDuel", mock.Anything, session.ID, &session.ChallengerID, mock.Anything).Return(nil).Once()

	require.NoError(t, f.svc.Complete(ctx, session.ID, session.ChallengerID, domain.DuelResult{Score: 55}))

	doc, err := f.store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DuelStatusCompleted, doc.Status)
	require.NotNil(t, doc.WinnerID)
	assert.Equal(t, session.ChallengerID, *doc.WinnerID)
	assert.Equal(t, int32(1), completed.Load())
	f.repo.AssertExpectations(t)
}

func TestComplete_ZeroHPFinalizesOnFirstReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := seedSession(t, f, uuid.New(), domain.DuelStatusActive)

	// The challenger ran out of hit points mid-duel
	zero, full := 0, domain.MaxHP
	require.NoError(t, f.store.Patch(ctx, session.ID, duelstore.Patch{Stats: map[string]duelstore.StatsPatch{
		session.ChallengerID.String(): {HP: &zero},
		session.OpponentID.String():  {HP: &full},
	}}))

	f.repo.On("SaveResult", mock.Anything, session.ID, session.ChallengerID, mock.Anything).Return(nil)
	f.rewards.On("AwardXP", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.rewards.On("RecordAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repo.On("CompleteDuel", mock.Anything, session.ID, &session.OpponentID, mock.Anything).Return(nil).Once()

	require.NoError(t, f.svc.Complete(ctx, session.ID, session.ChallengerID, domain.DuelResult{Score: 10}))

	doc, err := f.store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DuelStatusCompleted, doc.Status)
	require.NotNil(t, doc.WinnerID)
	assert.Equal(t, session.OpponentID, *doc.WinnerID, "the surviving side wins regardless of score")
	f.repo.AssertExpectations(t)
}

func TestComplete_ReportAfterCompletionKeepsRewards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := seedSession(t, f, uuid.New(), domain.DuelStatusCompleted)

	f.repo.On("SaveResult", mock.Anything, session.ID, session.OpponentID, mock.Anything).Return(nil)
	f.rewards.On("AwardXP", mock.Anything, session.OpponentID, BaseReward+30, rewards.ActionDuelWin).Return(nil)
	f.rewards.On("RecordAction", mock.Anything, session.OpponentID, rewards.ActionDuelWin, 30).Return(nil)

	require.NoError(t, f.svc.Complete(ctx, session.ID, session.OpponentID, domain.DuelResult{Score: 30}))

	// The outcome was already settled; no second finalization happens
	f.repo.AssertNotCalled(t, "CompleteDuel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.rewards.AssertExpectations(t)
}

func TestComplete_NotAParticipant(t *testing.T) {
	f := newFixture(t)
	session := seedSession(t, f, uuid.New(), domain.DuelStatusActive)

	err := f.svc.Complete(context.Background(), session.ID, uuid.New(), domain.DuelResult{})
	assert.ErrorIs(t, err, domain.ErrNotAParticipant)
}

func TestComplete_SaveResultFailure(t *testing.T) {
	f := newFixture(t)
	session := seedSession(t, f, uuid.New(), domain.DuelStatusActive)
	repoErr := errors.New("connection reset")

	f.repo.On("SaveResult", mock.Anything, session.ID, session.ChallengerID, mock.Anything).Return(repoErr)

	err := f.svc.Complete(context.Background(), session.ID, session.ChallengerID, domain.DuelResult{Score: 5})
	assert.ErrorIs(t, err, repoErr)
	f.rewards.AssertNotCalled(t, "AwardXP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveWinner(t *testing.T) {
	challengerID, opponentID := uuid.New(), uuid.New()

	base := func() *domain.DuelSession {
		return &domain.DuelSession{
			ID:           uuid.New(),
			ChallengerID: challengerID,
			OpponentID:   opponentID,
			LiveStats: map[string]domain.BattleState{
				challengerID.String(): {HP: domain.MaxHP},
				opponentID.String():   {HP: domain.MaxHP},
			},
		}
	}

	t.Run("higher result score wins", func(t *testing.T) {
		s := base()
		s.Results = map[string]*domain.DuelResult{
			challengerID.String(): {Score: 30},
			opponentID.String():   {Score: 50},
		}
		winner := resolveWinner(s)
		require.NotNil(t, winner)
		assert.Equal(t, opponentID, *winner)
	})

	t.Run("results override live scores", func(t *testing.T) {
		s := base()
		stats := s.LiveStats[challengerID.String()]
		stats.CurrentScore = 90
		s.LiveStats[challengerID.String()] = stats
		s.Results = map[string]*domain.DuelResult{
			challengerID.String(): {Score: 10},
			opponentID.String():   {Score: 20},
		}
		winner := resolveWinner(s)
		require.NotNil(t, winner)
		assert.Equal(t, opponentID, *winner)
	})

	t.Run("score tie breaks on hp", func(t *testing.T) {
		s := base()
		stats := s.LiveStats[opponentID.String()]
		stats.HP = 55
		s.LiveStats[opponentID.String()] = stats
		s.Results = map[string]*domain.DuelResult{
			challengerID.String(): {Score: 40},
			opponentID.String():   {Score: 40},
		}
		winner := resolveWinner(s)
		require.NotNil(t, winner)
		assert.Equal(t, challengerID, *winner)
	})

	t.Run("full tie has no winner", func(t *testing.T) {
		s := base()
		s.Results = map[string]*domain.DuelResult{
			challengerID.String(): {Score: 40},
			opponentID.String():   {Score: 40},
		}
		assert.Nil(t, resolveWinner(s))
	})

	t.Run("zero hp loses outright", func(t *testing.T) {
		s := base()
		stats := s.LiveStats[challengerID.String()]
		stats.HP = 0
		stats.CurrentScore = 99
		s.LiveStats[challengerID.String()] = stats
		winner := resolveWinner(s)
		require.NotNil(t, winner)
		assert.Equal(t, opponentID, *winner)
	})

	t.Run("both at zero falls back to score", func(t *testing.T) {
		s := base()
		c := s.LiveStats[challengerID.String()]
		o := s.LiveStats[opponentID.String()]
		c.HP, c.CurrentScore = 0, 25
		o.HP, o.CurrentScore = 0, 15
		s.LiveStats[challengerID.String()] = c
		s.LiveStats[opponentID.String()] = o
		winner := resolveWinner(s)
		require.NotNil(t, winner)
		assert.Equal(t, challengerID, *winner)
	})
}

func TestGetUserDuels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID, oppID := uuid.New(), uuid.New()
	deck := testDeck()

	sessions := []domain.DuelSession{
		{ID: uuid.New(), ChallengerID: userID, OpponentID: oppID, DeckID: deck.ID, Status: domain.DuelStatusActive, CreatedAt: time.Now()},
		{ID: uuid.New(), ChallengerID: oppID, OpponentID: userID, DeckID: deck.ID, Status: domain.DuelStatusCompleted, CreatedAt: time.Now().Add(-time.Hour)},
	}
	f.repo.On("GetDuelsForUser", mock.Anything, userID).Return(sessions, nil)
	f.users.On("GetUsernames", mock.Anything, []uuid.UUID{oppID, oppID}).Return(map[uuid.UUID]string{oppID: "ayse42"}, nil)
	f.decks.On("GetDeck", mock.Anything, deck.ID).Return(deck, nil)

	summaries, err := f.svc.GetUserDuels(ctx, userID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "ayse42", summaries[0].OpponentName)
	assert.Equal(t, "Osmanlı Tarihi", summaries[0].DeckTitle)
	assert.True(t, summaries[0].IsChallenger)
	assert.False(t, summaries[1].IsChallenger)
}

func TestExpirePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	expiredEvents := f.countEvents(event.DuelExpired)

	first := seedSession(t, f, uuid.New(), domain.DuelStatusPending)
	second := seedSession(t, f, uuid.New(), domain.DuelStatusPending)
	f.repo.On("ExpirePendingDuels", mock.Anything, mock.Anything).Return([]uuid.UUID{first.ID, second.ID}, nil)

	n, err := f.svc.ExpirePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int32(2), expiredEvents.Load())

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		doc, err := f.store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.DuelStatusExpired, doc.Status)
	}
}

func TestExpirePending_RepoFailure(t *testing.T) {
	f := newFixture(t)
	repoErr := errors.New("timeout")
	f.repo.On("ExpirePendingDuels", mock.Anything, mock.Anything).Return(nil, repoErr)

	_, err := f.svc.ExpirePending(context.Background())
	assert.ErrorIs(t, err, repoErr)
}
