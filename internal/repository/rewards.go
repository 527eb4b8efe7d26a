package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
)

// Rewards defines the interface for the gamification ledger
type Rewards interface {
	// AddXP atomically increments a user's XP total and returns the new value
	AddXP(ctx context.Context, userID uuid.UUID, amount int) (int, error)
	RecordAction(ctx context.Context, action *domain.GamificationAction) error
}
