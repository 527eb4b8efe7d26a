package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered arena participant
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	XP        int       `json:"xp"`
	CreatedAt time.Time `json:"created_at"`
}

// GamificationAction is a single row in the reward ledger, recording an
// action tag and its value (e.g. flashcard_duel_win with the final score).
type GamificationAction struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
