package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcsinavim/arena/internal/domain"
)

// DuelRepository implements the duel repository for PostgreSQL
type DuelRepository struct {
	db *pgxpool.Pool
}

// NewDuelRepository creates a new DuelRepository
func NewDuelRepository(db *pgxpool.Pool) *DuelRepository {
	return &DuelRepository{db: db}
}

// CreateDuel persists a new duel session record
func (r *DuelRepository) CreateDuel(ctx context.Context, session *domain.DuelSession) error {
	query := `
		INSERT INTO duels (duel_id, challenger_id, opponent_id, deck_id, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.ChallengerID,
		session.OpponentID,
		session.DeckID,
		string(session.Status),
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert duel: %w", err)
	}
	return nil
}

// GetDuel retrieves a duel and its reported results. Returns nil when the
// duel does not exist.
func (r *DuelRepository) GetDuel(ctx context.Context, id uuid.UUID) (*domain.DuelSession, error) {
	query := `
		SELECT duel_id, challenger_id, opponent_id, deck_id, status, winner_id, created_at, expires_at, completed_at
		FROM duels
		WHERE duel_id = $1
	`

	session, err := scanDuel(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get duel: %w", err)
	}

	results, err := r.getResults(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Results = results

	return session, nil
}

// GetDuelsForUser lists a user's duels, newest first
func (r *DuelRepository) GetDuelsForUser(ctx context.Context, userID uuid.UUID) ([]domain.DuelSession, error) {
	query := `
		SELECT duel_id, challenger_id, opponent_id, deck_id, status, winner_id, created_at, expires_at, completed_at
		FROM duels
		WHERE challenger_id = $1 OR opponent_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query duels: %w", err)
	}
	defer rows.Close()

	var sessions []domain.DuelSession
	for rows.Next() {
		session, err := scanDuel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan duel: %w", err)
		}
		sessions = append(sessions, *session)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

// UpdateDuelStatus transitions a duel's status
func (r *DuelRepository) UpdateDuelStatus(ctx context.Context, id uuid.UUID, status domain.DuelStatus) error {
	query := `UPDATE duels SET status = $2 WHERE duel_id = $1`

	tag, err := r.db.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update duel status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuelNotFound
	}
	return nil
}

// SaveResult upserts one participant's reported final tally
func (r *DuelRepository) SaveResult(ctx context.Context, id, participantID uuid.UUID, result *domain.DuelResult) error {
	query := `
		INSERT INTO duel_results (duel_id, user_id, score, correct_count, total_count, time_spent, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (duel_id, user_id) DO UPDATE SET
			score = EXCLUDED.score,
			correct_count = EXCLUDED.correct_count,
			total_count = EXCLUDED.total_count,
			time_spent = EXCLUDED.time_spent,
			submitted_at = EXCLUDED.submitted_at
	`

	_, err := r.db.Exec(ctx, query,
		id,
		participantID,
		result.Score,
		result.CorrectCount,
		result.TotalCount,
		result.TimeSpent,
		result.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save duel result: %w", err)
	}
	return nil
}

// CompleteDuel marks a duel completed with its resolved winner
func (r *DuelRepository) CompleteDuel(ctx context.Context, id uuid.UUID, winnerID *uuid.UUID, completedAt time.Time) error {
	query := `
		UPDATE duels
		SET status = $2, winner_id = $3, completed_at = $4
		WHERE duel_id = $1 AND status != $2
	`

	_, err := r.db.Exec(ctx, query, id, string(domain.DuelStatusCompleted), winnerID, completedAt)
	if err != nil {
		return fmt.Errorf("failed to complete duel: %w", err)
	}
	return nil
}

// ExpirePendingDuels marks all lapsed pending challenges expired and
// returns their IDs.
func (r *DuelRepository) ExpirePendingDuels(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE duels
		SET status = $1
		WHERE status = $2 AND expires_at <= $3
		RETURNING duel_id
	`

	rows, err := r.db.Query(ctx, query, string(domain.DuelStatusExpired), string(domain.DuelStatusPending), now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire duels: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expired duel id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

func (r *DuelRepository) getResults(ctx context.Context, id uuid.UUID) (map[string]*domain.DuelResult, error) {
	query := `
		SELECT user_id, score, correct_count, total_count, time_spent, submitted_at
		FROM duel_results
		WHERE duel_id = $1
	`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query duel results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]*domain.DuelResult)
	for rows.Next() {
		var userID uuid.UUID
		var res domain.DuelResult
		if err := rows.Scan(&userID, &res.Score, &res.CorrectCount, &res.TotalCount, &res.TimeSpent, &res.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan duel result: %w", err)
		}
		results[userID.String()] = &res
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDuel(row rowScanner) (*domain.DuelSession, error) {
	var session domain.DuelSession
	var status string
	err := row.Scan(
		&session.ID,
		&session.ChallengerID,
		&session.OpponentID,
		&session.DeckID,
		&status,
		&session.WinnerID,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	session.Status = domain.DuelStatus(status)
	return &session, nil
}
