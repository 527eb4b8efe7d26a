// Package duelstore abstracts the shared, subscribable duel document.
// Two un-coordinated devices patch disjoint field groups of one session
// document and receive merged snapshots on every change; no ordering is
// guaranteed between the two writers' streams and a writer may observe
// its own write echoed back. Correctness rests on the field-ownership
// partition upheld by the callers, not on the store.
package duelstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
)

// SnapshotFunc receives the full current document on every mutation,
// at-least-once. Implementations may coalesce rapid updates.
type SnapshotFunc func(session *domain.DuelSession)

// UnsubscribeFunc stops delivery. Idempotent and safe to call multiple times.
type UnsubscribeFunc func()

// Store is the duel document store contract
type Store interface {
	Create(ctx context.Context, session *domain.DuelSession) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.DuelSession, error)
	// Patch merges only the leaf fields the patch names; sibling fields are
	// never destructively overwritten. Returns domain.ErrStoreUnavailable
	// when the underlying transport is down.
	Patch(ctx context.Context, id uuid.UUID, patch Patch) error
	Subscribe(id uuid.UUID, fn SnapshotFunc) (UnsubscribeFunc, error)
}

// StatsPatch is a partial update of one participant's BattleState. Nil
// fields are left untouched. ClearAnswer removes CurrentAnswer, which a
// participant does only after seeing the referee's verdict.
type StatsPatch struct {
	HP            *int
	Progress      *int
	CurrentScore  *int
	CurrentAnswer *domain.AnswerPayload
	ClearAnswer   bool
	Judgment      *domain.Judgment
}

// Patch is a partial update of a duel session document
type Patch struct {
	Status   *domain.DuelStatus
	WinnerID *uuid.UUID
	Results  map[string]*domain.DuelResult
	Stats    map[string]StatsPatch
}

// apply merges the patch into the document in place. Only named leaf
// fields change; everything else is preserved, matching the merge
// semantics of a field-level document update.
func (p Patch) apply(doc *domain.DuelSession, now func() domain.BattleState) {
	if p.Status != nil {
		doc.Status = *p.Status
	}
	if p.WinnerID != nil {
		w := *p.WinnerID
		doc.WinnerID = &w
	}
	for id, res := range p.Results {
		if doc.Results == nil {
			doc.Results = make(map[string]*domain.DuelResult)
		}
		r := *res
		doc.Results[id] = &r
	}
	for id, sp := range p.Stats {
		if doc.LiveStats == nil {
			doc.LiveStats = make(map[string]domain.BattleState)
		}
		stats, ok := doc.LiveStats[id]
		if !ok {
			stats = now()
		}
		sp.applyTo(&stats)
		doc.LiveStats[id] = stats
	}
}

func (sp StatsPatch) applyTo(s *domain.BattleState) {
	if sp.HP != nil {
		s.HP = *sp.HP
	}
	if sp.Progress != nil {
		s.Progress = *sp.Progress
	}
	if sp.CurrentScore != nil {
		s.CurrentScore = *sp.CurrentScore
	}
	if sp.CurrentAnswer != nil {
		a := *sp.CurrentAnswer
		s.CurrentAnswer = &a
	}
	if sp.ClearAnswer {
		s.CurrentAnswer = nil
	}
	if sp.Judgment != nil {
		s.Judgment = *sp.Judgment
	}
}

// Helper constructors for the two writer roles. Keeping patch assembly
// here keeps the ownership partition in one auditable place.

// OwnSubmission is the field group a participant writes when submitting
// an answer: its own progress, score, answer payload, and a judgment
// reset to pending.
func OwnSubmission(participantID uuid.UUID, progress, score int, answer *domain.AnswerPayload) Patch {
	pending := domain.JudgmentPending
	return Patch{Stats: map[string]StatsPatch{
		participantID.String(): {
			Progress:      &progress,
			CurrentScore:  &score,
			CurrentAnswer: answer,
			Judgment:      &pending,
		},
	}}
}

// OwnAdvance is the field group a participant writes after a resolved
// card: progress and score, with the judged answer cleared and judgment
// reset for the next round.
func OwnAdvance(participantID uuid.UUID, progress, score int) Patch {
	pending := domain.JudgmentPending
	return Patch{Stats: map[string]StatsPatch{
		participantID.String(): {
			Progress:     &progress,
			CurrentScore: &score,
			ClearAnswer:  true,
			Judgment:     &pending,
		},
	}}
}

// Verdict is the field group the referee writes on the opponent's entry:
// hp, score, and the judgment transition away from pending. Progress is
// owned by the opponent and never touched here.
func Verdict(opponentID uuid.UUID, hp, score int, judgment domain.Judgment) Patch {
	return Patch{Stats: map[string]StatsPatch{
		opponentID.String(): {
			HP:           &hp,
			CurrentScore: &score,
			Judgment:     &judgment,
		},
	}}
}
