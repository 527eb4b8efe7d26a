// Package referee implements the challenger-side judging component. The
// referee observes the opponent's submitted answer through the duel
// document subscription and writes exactly one verdict per answer. It
// only ever touches the opponent's hp, score and judgment fields; the
// opponent's progress belongs to the opponent.
package referee

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/duelstore"
	"github.com/rcsinavim/arena/internal/logger"
	"github.com/rcsinavim/arena/internal/scoring"
)

// AnswerFunc is notified when a fresh opponent answer arrives for
// judging. Redelivered snapshots of an already-seen answer do not
// re-trigger it.
type AnswerFunc func(answer domain.AnswerPayload)

// Judge runs on the challenger's device and produces verdicts on the
// opponent's answers.
type Judge struct {
	store      duelstore.Store
	duelID     uuid.UUID
	selfID     uuid.UUID
	opponentID uuid.UUID
	onAnswer   AnswerFunc

	mu             sync.Mutex
	pending        *domain.AnswerPayload
	pendingKey     string
	judgedKey      string
	judgedProgress int
	oppStats       domain.BattleState
	hasOppStats    bool
	unsubscribe    duelstore.UnsubscribeFunc
}

// NewJudge creates a referee for one duel. onAnswer may be nil.
func NewJudge(store duelstore.Store, session *domain.DuelSession, selfID uuid.UUID, onAnswer AnswerFunc) (*Judge, error) {
	if !session.IsReferee(selfID) {
		return nil, domain.ErrNotReferee
	}
	return &Judge{
		store:      store,
		duelID:     session.ID,
		selfID:     selfID,
		opponentID: session.OpponentOf(selfID),
		onAnswer:   onAnswer,
	}, nil
}

// Start subscribes to the duel document
func (j *Judge) Start() error {
	unsub, err := j.store.Subscribe(j.duelID, j.ApplySnapshot)
	if err != nil {
		return fmt.Errorf("failed to subscribe to duel: %w", err)
	}
	j.mu.Lock()
	j.unsubscribe = unsub
	j.mu.Unlock()
	return nil
}

// Stop unsubscribes from the store
func (j *Judge) Stop() {
	j.mu.Lock()
	unsub := j.unsubscribe
	j.unsubscribe = nil
	j.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// ApplySnapshot tracks the opponent's entry. An answer becomes pending
// for judgment when the opponent's judgment is pending and the answer
// content has not been judged before. Identity is keyed on the answer
// content, not on judgment state: the opponent clears the answer only
// after seeing the verdict, so the same value can be redelivered many
// times in between.
func (j *Judge) ApplySnapshot(snapshot *domain.DuelSession) {
	stats, ok := snapshot.Stats(j.opponentID)
	if !ok || stats.Validate() != nil {
		return
	}

	j.mu.Lock()
	j.oppStats = stats
	j.hasOppStats = true

	if stats.Judgment != domain.JudgmentPending || stats.CurrentAnswer == nil {
		if stats.CurrentAnswer == nil {
			// The opponent clears the answer only after seeing the verdict,
			// so whatever it submits next is a new answer even when the
			// content repeats the judged one.
			j.judgedKey = ""
		}
		j.pending = nil
		j.pendingKey = ""
		j.mu.Unlock()
		return
	}

	// A repeat of the judged key is only a redelivery while the opponent's
	// progress still matches the judged round. Snapshots coalesce, so the
	// cleared-answer state between two identical answers can be skipped
	// entirely; the progress written with the new submission still moves.
	key := stats.CurrentAnswer.Key()
	if key == j.pendingKey || (key == j.judgedKey && stats.Progress == j.judgedProgress) {
		j.mu.Unlock()
		return
	}

	answer := *stats.CurrentAnswer
	j.pending = &answer
	j.pendingKey = key
	onAnswer := j.onAnswer
	j.mu.Unlock()

	if onAnswer != nil {
		onAnswer(answer)
	}
}

// PendingAnswer returns the answer currently awaiting a verdict
func (j *Judge) PendingAnswer() (domain.AnswerPayload, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.pending == nil {
		return domain.AnswerPayload{}, false
	}
	return *j.pending, true
}

// Judge writes the verdict for the pending answer to the opponent's
// entry: new hp and score computed from the scoring functions, and the
// judgment transition away from pending. At most one verdict is written
// per submitted answer; judging the same answer again is a silent no-op.
func (j *Judge) Judge(ctx context.Context, correct bool) error {
	j.mu.Lock()
	if j.pending == nil {
		if j.judgedKey != "" {
			// Duplicate notification of an answer we already judged
			j.mu.Unlock()
			logger.FromContext(ctx).Debug(LogMsgDuplicateJudgment, "duel_id", j.duelID)
			return nil
		}
		j.mu.Unlock()
		return domain.ErrNoAnswerSubmitted
	}
	if !j.hasOppStats {
		j.mu.Unlock()
		return domain.ErrNoAnswerSubmitted
	}

	outcome := scoring.OutcomeMiss
	judgment := domain.JudgmentWrong
	if correct {
		outcome = scoring.OutcomePerfect
		judgment = domain.JudgmentCorrect
	}
	hp := scoring.ApplyHP(j.oppStats.HP, scoring.HPDelta(outcome))
	score := j.oppStats.CurrentScore + scoring.ScoreDelta(outcome)

	key := j.pendingKey
	progress := j.oppStats.Progress
	j.mu.Unlock()

	patch := duelstore.Verdict(j.opponentID, hp, score, judgment)
	if err := j.store.Patch(ctx, j.duelID, patch); err != nil {
		return fmt.Errorf("failed to write verdict: %w", err)
	}

	j.mu.Lock()
	j.judgedKey = key
	j.judgedProgress = progress
	j.pending = nil
	j.pendingKey = ""
	j.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgVerdictWritten,
		"duel_id", j.duelID, "opponent_id", j.opponentID, "judgment", judgment)
	return nil
}
