package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcsinavim/arena/internal/domain"
)

// RewardsRepository implements the gamification ledger for PostgreSQL
type RewardsRepository struct {
	db *pgxpool.Pool
}

// NewRewardsRepository creates a new RewardsRepository
func NewRewardsRepository(db *pgxpool.Pool) *RewardsRepository {
	return &RewardsRepository{db: db}
}

// AddXP atomically increments a user's XP total and returns the new value
func (r *RewardsRepository) AddXP(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	query := `
		UPDATE users
		SET xp = xp + $2
		WHERE user_id = $1
		RETURNING xp
	`

	var total int
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to add xp: %w", err)
	}
	return total, nil
}

// RecordAction appends one row to the gamification ledger
func (r *RewardsRepository) RecordAction(ctx context.Context, action *domain.GamificationAction) error {
	query := `
		INSERT INTO gamification_actions (user_id, action, value, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, action.UserID, action.Action, action.Value, action.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}
