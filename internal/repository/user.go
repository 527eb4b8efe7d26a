package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
)

// User defines the interface for user data access
type User interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUsernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
