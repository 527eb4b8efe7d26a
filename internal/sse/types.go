package sse

import "time"

// DuelChallengedPayload is the SSE payload for new challenges
type DuelChallengedPayload struct {
	DuelID       string    `json:"duel_id"`
	ChallengerID string    `json:"challenger_id"`
	OpponentID   string    `json:"opponent_id"`
	DeckID       string    `json:"deck_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// DuelStartedPayload is the SSE payload for duel activation
type DuelStartedPayload struct {
	DuelID string `json:"duel_id"`
}

// DuelCompletedPayload is the SSE payload for duel completion
type DuelCompletedPayload struct {
	DuelID   string `json:"duel_id"`
	WinnerID string `json:"winner_id,omitempty"` // empty on a draw
}

// DuelExpiredPayload is the SSE payload for lapsed challenges
type DuelExpiredPayload struct {
	DuelID string `json:"duel_id"`
}

// DeckSharedPayload is the SSE payload for deck shares
type DeckSharedPayload struct {
	DeckID    string `json:"deck_id"`
	CreatorID string `json:"creator_id"`
	Title     string `json:"title"`
	CardCount int    `json:"card_count"`
}

// BattleStatsEntry is one participant's live stats on a per-duel stream
type BattleStatsEntry struct {
	HP           int    `json:"hp"`
	Progress     int    `json:"progress"`
	CurrentScore int    `json:"current_score"`
	Judgment     string `json:"judgment"`
}

// BattleUpdatePayload is a full live snapshot of a duel document
type BattleUpdatePayload struct {
	DuelID    string                      `json:"duel_id"`
	Status    string                      `json:"status"`
	LiveStats map[string]BattleStatsEntry `json:"live_stats"`
	WinnerID  string                      `json:"winner_id,omitempty"`
}
