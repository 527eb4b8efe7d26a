package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// AnswerKind discriminates the closed set of answer payload variants
type AnswerKind string

const (
	// AnswerKindDrawing carries a serialized drawing trace (SVG path data)
	AnswerKindDrawing AnswerKind = "drawing"
	// AnswerKindSwipe carries a discrete swipe outcome tag
	AnswerKindSwipe AnswerKind = "swipe"
)

// SwipeOutcome is the discrete outcome tag produced by a card swipe
type SwipeOutcome string

const (
	SwipePass     SwipeOutcome = "pass"
	SwipeHit      SwipeOutcome = "hit"
	SwipeCritical SwipeOutcome = "critical"
)

// AnswerPayload is the opaque answer a participant submits for the card
// currently being judged. Exactly one of Path or Outcome is set,
// depending on Kind.
type AnswerPayload struct {
	Kind    AnswerKind   `json:"kind"`
	Path    string       `json:"path,omitempty"`
	Outcome SwipeOutcome `json:"outcome,omitempty"`
}

// DrawingAnswer builds a drawing-trace answer payload
func DrawingAnswer(path string) *AnswerPayload {
	return &AnswerPayload{Kind: AnswerKindDrawing, Path: path}
}

// SwipeAnswer builds a swipe-outcome answer payload
func SwipeAnswer(outcome SwipeOutcome) *AnswerPayload {
	return &AnswerPayload{Kind: AnswerKindSwipe, Outcome: outcome}
}

// Validate checks the variant is well formed: a known kind with its
// matching field populated.
func (a *AnswerPayload) Validate() error {
	switch a.Kind {
	case AnswerKindDrawing:
		if a.Path == "" {
			return ErrMalformedBattleState
		}
	case AnswerKindSwipe:
		switch a.Outcome {
		case SwipePass, SwipeHit, SwipeCritical:
		default:
			return ErrMalformedBattleState
		}
	default:
		return ErrMalformedBattleState
	}
	return nil
}

// Key returns a stable identity for the answer content. The referee keys
// its already-judged check on this value rather than on judgment state,
// since the participant clears the answer only after seeing the verdict.
func (a *AnswerPayload) Key() string {
	b, err := json.Marshal(a)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
