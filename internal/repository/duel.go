package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
)

// Duel defines the interface for duel data access. The repository holds
// the durable record of a duel (challenge, final tallies, outcome); the
// live battle document lives in the duel store.
type Duel interface {
	CreateDuel(ctx context.Context, duel *domain.DuelSession) error
	GetDuel(ctx context.Context, id uuid.UUID) (*domain.DuelSession, error)
	GetDuelsForUser(ctx context.Context, userID uuid.UUID) ([]domain.DuelSession, error)
	UpdateDuelStatus(ctx context.Context, id uuid.UUID, status domain.DuelStatus) error
	SaveResult(ctx context.Context, id uuid.UUID, participantID uuid.UUID, result *domain.DuelResult) error
	CompleteDuel(ctx context.Context, id uuid.UUID, winnerID *uuid.UUID, completedAt time.Time) error
	// ExpirePendingDuels marks pending duels whose challenge window has
	// lapsed and returns their IDs.
	ExpirePendingDuels(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}
