package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Store errors
	ErrMsgStoreUnavailable = "duel store unavailable"

	// Duel errors
	ErrMsgDuelNotFound      = "duel not found"
	ErrMsgDuelNotActive     = "duel is not active"
	ErrMsgDuelCompleted     = "duel already completed"
	ErrMsgNotAParticipant   = "user is not a participant in this duel"
	ErrMsgSelfChallenge     = "cannot challenge yourself"
	ErrMsgDuplicateJudgment = "answer already judged"
	ErrMsgNotReferee        = "only the challenger may judge"

	// Battle state errors
	ErrMsgMalformedBattleState = "malformed battle state"
	ErrMsgNoAnswerSubmitted    = "no answer submitted"

	// Deck errors
	ErrMsgDeckNotFound = "deck not found"
	ErrMsgDeckEmpty    = "deck has no cards"

	// User errors
	ErrMsgUserNotFound = "user not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrStoreUnavailable is transient: the underlying realtime transport is
	// down. State machines freeze on it and resume on reconnect; it is never
	// surfaced as a duel outcome.
	ErrStoreUnavailable = errors.New(ErrMsgStoreUnavailable)

	// Duel errors
	ErrDuelNotFound      = errors.New(ErrMsgDuelNotFound)
	ErrDuelNotActive     = errors.New(ErrMsgDuelNotActive)
	ErrDuelCompleted     = errors.New(ErrMsgDuelCompleted)
	ErrNotAParticipant   = errors.New(ErrMsgNotAParticipant)
	ErrSelfChallenge     = errors.New(ErrMsgSelfChallenge)
	ErrDuplicateJudgment = errors.New(ErrMsgDuplicateJudgment)
	ErrNotReferee        = errors.New(ErrMsgNotReferee)

	// Battle state errors
	ErrMalformedBattleState = errors.New(ErrMsgMalformedBattleState)
	ErrNoAnswerSubmitted    = errors.New(ErrMsgNoAnswerSubmitted)

	// Deck errors
	ErrDeckNotFound = errors.New(ErrMsgDeckNotFound)
	ErrDeckEmpty    = errors.New(ErrMsgDeckEmpty)

	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
