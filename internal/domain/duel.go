package domain

import (
	"time"

	"github.com/google/uuid"
)

// DuelStatus represents the lifecycle state of a duel session
type DuelStatus string

const (
	DuelStatusPending   DuelStatus = "pending"
	DuelStatusActive    DuelStatus = "active"
	DuelStatusCompleted DuelStatus = "completed"
	DuelStatusExpired   DuelStatus = "expired"
)

// Judgment represents the referee's verdict on a submitted answer
type Judgment string

const (
	JudgmentPending Judgment = "pending"
	JudgmentCorrect Judgment = "correct"
	JudgmentWrong   Judgment = "wrong"
)

// Valid reports whether j is one of the known judgment values
func (j Judgment) Valid() bool {
	switch j {
	case JudgmentPending, JudgmentCorrect, JudgmentWrong:
		return true
	}
	return false
}

// HP and progress bounds for a battle participant
const (
	MaxHP       = 100
	MaxProgress = 100
)

// BattleState is the per-participant live progress record nested under
// a duel session's LiveStats map.
//
// Field ownership: the participant writes Progress, CurrentScore,
// CurrentAnswer and resets Judgment to pending; only the participant's
// referee writes HP, CurrentScore on this entry and moves Judgment away
// from pending. The partition is enforced by the services that build
// store patches, not by the store itself.
type BattleState struct {
	HP            int            `json:"hp"`
	Progress      int            `json:"progress"`
	CurrentScore  int            `json:"current_score"`
	CurrentAnswer *AnswerPayload `json:"current_answer,omitempty"`
	Judgment      Judgment       `json:"judgment"`
	LastUpdate    time.Time      `json:"last_update"`
}

// NewBattleState returns the initial state written when a participant
// enters the arena.
func NewBattleState() BattleState {
	return BattleState{
		HP:         MaxHP,
		Progress:   0,
		Judgment:   JudgmentPending,
		LastUpdate: time.Now(),
	}
}

// Validate checks the invariants a remote snapshot must satisfy before a
// state machine may act on it. A failing state is discarded by the
// consumer, never acted upon.
func (b BattleState) Validate() error {
	if b.HP < 0 || b.HP > MaxHP {
		return ErrMalformedBattleState
	}
	if b.Progress < 0 || b.Progress > MaxProgress {
		return ErrMalformedBattleState
	}
	if b.CurrentScore < 0 {
		return ErrMalformedBattleState
	}
	if !b.Judgment.Valid() {
		return ErrMalformedBattleState
	}
	return nil
}

// DuelResult is one participant's final tally, reported once on finish
type DuelResult struct {
	Score        int       `json:"score"`
	CorrectCount int       `json:"correct_count"`
	TotalCount   int       `json:"total_count"`
	TimeSpent    int       `json:"time_spent"` // seconds
	SubmittedAt  time.Time `json:"submitted_at"`
}

// DuelSession is the authoritative shared state for one duel. Both
// participants' devices patch disjoint field groups of this document and
// receive merged snapshots of it on every change.
type DuelSession struct {
	ID           uuid.UUID              `json:"id"`
	ChallengerID uuid.UUID              `json:"challenger_id"`
	OpponentID   uuid.UUID              `json:"opponent_id"`
	DeckID       uuid.UUID              `json:"deck_id"`
	Status       DuelStatus             `json:"status"`
	LiveStats    map[string]BattleState `json:"live_stats,omitempty"`
	Results      map[string]*DuelResult `json:"results,omitempty"`
	WinnerID     *uuid.UUID             `json:"winner_id,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	ExpiresAt    time.Time              `json:"expires_at"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
}

// OpponentOf returns the other participant's ID
func (d *DuelSession) OpponentOf(participantID uuid.UUID) uuid.UUID {
	if participantID == d.ChallengerID {
		return d.OpponentID
	}
	return d.ChallengerID
}

// IsParticipant reports whether the given user takes part in this duel
func (d *DuelSession) IsParticipant(userID uuid.UUID) bool {
	return userID == d.ChallengerID || userID == d.OpponentID
}

// IsReferee reports whether the given participant judges the other side.
// The challenger's device runs the referee.
func (d *DuelSession) IsReferee(participantID uuid.UUID) bool {
	return participantID == d.ChallengerID
}

// Stats returns the battle state for a participant, if present
func (d *DuelSession) Stats(participantID uuid.UUID) (BattleState, bool) {
	s, ok := d.LiveStats[participantID.String()]
	return s, ok
}

// BothJoined reports whether both participants have initialized their
// battle state, which is the condition for the session turning active.
func (d *DuelSession) BothJoined() bool {
	if len(d.LiveStats) < 2 {
		return false
	}
	_, c := d.LiveStats[d.ChallengerID.String()]
	_, o := d.LiveStats[d.OpponentID.String()]
	return c && o
}

// DuelSummary is a listing row for a user's duels, enriched with the
// deck title and the other participant's display name.
type DuelSummary struct {
	ID           uuid.UUID  `json:"id"`
	DeckID       uuid.UUID  `json:"deck_id"`
	DeckTitle    string     `json:"deck_title"`
	OpponentID   uuid.UUID  `json:"opponent_id"`
	OpponentName string     `json:"opponent_name"`
	Status       DuelStatus `json:"status"`
	IsChallenger bool       `json:"is_challenger"`
	CreatedAt    time.Time  `json:"created_at"`
}
