package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcsinavim/arena/internal/database/postgres"
	"github.com/rcsinavim/arena/internal/eventlog"
	"github.com/rcsinavim/arena/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Duel     repository.Duel
	Deck     repository.Deck
	User     repository.User
	Rewards  repository.Rewards
	EventLog eventlog.Repository
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Duel:     postgres.NewDuelRepository(dbPool),
		Deck:     postgres.NewDeckRepository(dbPool),
		User:     postgres.NewUserRepository(dbPool),
		Rewards:  postgres.NewRewardsRepository(dbPool),
		EventLog: postgres.NewEventLogRepository(dbPool),
	}
}
