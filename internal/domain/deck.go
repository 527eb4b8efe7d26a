package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is one flashcard in a deck: an immutable front/back/subject triple
type Card struct {
	Front   string `json:"front"`
	Back    string `json:"back"`
	Subject string `json:"subject"`
}

// Deck is a shared, immutable, ordered card sequence that duels are
// played over. Decks are created once and never edited afterwards, which
// is what makes caching them by ID safe.
type Deck struct {
	ID        uuid.UUID `json:"id"`
	CreatorID uuid.UUID `json:"creator_id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Cards     []Card    `json:"cards"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}
