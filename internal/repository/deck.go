package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
)

// Deck defines the interface for shared deck data access
type Deck interface {
	CreateDeck(ctx context.Context, deck *domain.Deck) error
	GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
	GetDeckTitle(ctx context.Context, id uuid.UUID) (string, error)
}
