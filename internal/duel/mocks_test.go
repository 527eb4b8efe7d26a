package duel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rcsinavim/arena/internal/domain"
)

type mockDuelRepo struct {
	mock.Mock
}

func (m *mockDuelRepo) CreateDuel(ctx context.Context, duel *domain.DuelSession) error {
	args := m.Called(ctx, duel)
	return args.Error(0)
}

func (m *mockDuelRepo) GetDuel(ctx context.Context, id uuid.UUID) (*domain.DuelSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DuelSession), args.Error(1)
}

func (m *mockDuelRepo) GetDuelsForUser(ctx context.Context, userID uuid.UUID) ([]domain.DuelSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DuelSession), args.Error(1)
}

func (m *mockDuelRepo) UpdateDuelStatus(ctx context.Context, id uuid.UUID, status domain.DuelStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockDuelRepo) SaveResult(ctx context.Context, id uuid.UUID, participantID uuid.UUID, result *domain.DuelResult) error {
	args := m.Called(ctx, id, participantID, result)
	return args.Error(0)
}

func (m *mockDuelRepo) CompleteDuel(ctx context.Context, id uuid.UUID, winnerID *uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, id, winnerID, completedAt)
	return args.Error(0)
}

func (m *mockDuelRepo) ExpirePendingDuels(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetUsernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

type mockDeckService struct {
	mock.Mock
}

func (m *mockDeckService) CreateSharedDeck(ctx context.Context, creatorID uuid.UUID, title, subject string, cards []domain.Card) (*domain.Deck, error) {
	args := m.Called(ctx, creatorID, title, subject, cards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

func (m *mockDeckService) GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

type mockRewardsService struct {
	mock.Mock
}

func (m *mockRewardsService) AwardXP(ctx context.Context, userID uuid.UUID, amount int, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}

func (m *mockRewardsService) RecordAction(ctx context.Context, userID uuid.UUID, action string, value int) error {
	args := m.Called(ctx, userID, action, value)
	return args.Error(0)
}
