package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcsinavim/arena/internal/domain"
)

// DeckRepository implements the shared deck repository for PostgreSQL
type DeckRepository struct {
	db *pgxpool.Pool
}

// NewDeckRepository creates a new DeckRepository
func NewDeckRepository(db *pgxpool.Pool) *DeckRepository {
	return &DeckRepository{db: db}
}

// CreateDeck persists a shared deck. Cards are stored as a JSONB blob;
// decks are immutable once shared so there is no per-card mutation.
func (r *DeckRepository) CreateDeck(ctx context.Context, deck *domain.Deck) error {
	cardsJSON, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("failed to marshal cards: %w", err)
	}

	query := `
		INSERT INTO decks (deck_id, creator_id, title, subject, cards, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.Exec(ctx, query,
		deck.ID,
		deck.CreatorID,
		deck.Title,
		deck.Subject,
		cardsJSON,
		deck.IsPublic,
		deck.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deck: %w", err)
	}
	return nil
}

// GetDeck retrieves a shared deck with its cards. Returns nil when the
// deck does not exist.
func (r *DeckRepository) GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query := `
		SELECT deck_id, creator_id, title, subject, cards, is_public, created_at
		FROM decks
		WHERE deck_id = $1
	`

	var deck domain.Deck
	var cardsJSON []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&deck.ID,
		&deck.CreatorID,
		&deck.Title,
		&deck.Subject,
		&cardsJSON,
		&deck.IsPublic,
		&deck.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	if err := json.Unmarshal(cardsJSON, &deck.Cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cards: %w", err)
	}

	return &deck, nil
}

// GetDeckTitle retrieves only a deck's title, for duel list enrichment
func (r *DeckRepository) GetDeckTitle(ctx context.Context, id uuid.UUID) (string, error) {
	query := `SELECT title FROM decks WHERE deck_id = $1`

	var title string
	err := r.db.QueryRow(ctx, query, id).Scan(&title)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrDeckNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get deck title: %w", err)
	}
	return title, nil
}
