// Package battle implements the per-participant state machine that
// drives one player through a duel deck: card presentation, answer
// submission, judgment wait, resolution, advance or finish. The machine
// owns no UI concerns; it reacts only to local player actions and to the
// current merged duel document, never to a sequence of deltas, which
// makes it robust to redelivered, reordered, or coalesced snapshots.
package battle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/duelstore"
	"github.com/rcsinavim/arena/internal/logger"
	"github.com/rcsinavim/arena/internal/scoring"
)

// Phase is the tagged state of the machine
type Phase string

const (
	PhasePresenting       Phase = "presenting"
	PhaseAnswering        Phase = "answering"
	PhaseAwaitingJudgment Phase = "awaiting_judgment"
	PhaseResolved         Phase = "resolved"
	PhaseFinished         Phase = "finished"
)

// Mode selects how answers get judged
type Mode int

const (
	// ModeJudged submits answers for the remote referee's verdict. The
	// opponent side of a duel runs in this mode.
	ModeJudged Mode = iota
	// ModeSelfJudged scores outcomes locally and writes its own entry.
	// The challenger side runs in this mode, since its device hosts the
	// referee and nobody judges the referee.
	ModeSelfJudged
	// ModeStudy is self-play with no opponent and no store
	ModeStudy
)

// Completer settles a finished run. Invoked exactly once per machine.
type Completer interface {
	Complete(ctx context.Context, duelID, participantID uuid.UUID, result domain.DuelResult) error
}

// Machine drives one participant through a deck
type Machine struct {
	mode      Mode
	duelID    uuid.UUID
	selfID    uuid.UUID
	deck      []domain.Card
	store     duelstore.Store
	completer Completer

	mu           sync.Mutex
	phase        Phase
	cursor       int
	hp           int
	score        int
	energy       int
	correctCount int
	startedAt    time.Time
	waitingSince time.Time
	finished     bool
	unsubscribe  duelstore.UnsubscribeFunc

	// baseCtx carries the request ID of the session that started the
	// machine into snapshot-driven writes, which have no caller context.
	baseCtx context.Context
}

// New creates a machine for one participant over a fixed deck. The store
// and completer may be nil in ModeStudy.
func New(mode Mode, duelID, selfID uuid.UUID, deck []domain.Card, store duelstore.Store, completer Completer) (*Machine, error) {
	if len(deck) == 0 {
		return nil, domain.ErrDeckEmpty
	}
	if mode != ModeStudy && store == nil {
		return nil, fmt.Errorf("%w: duel mode requires a store", domain.ErrInvalidInput)
	}
	return &Machine{
		mode:      mode,
		duelID:    duelID,
		selfID:    selfID,
		deck:      deck,
		store:     store,
		completer: completer,
		phase:     PhasePresenting,
		hp:        domain.MaxHP,
		energy:    scoring.MaxEnergy,
		baseCtx:   context.Background(),
	}, nil
}

// Start initializes the participant's battle state in the store and
// subscribes to the duel document. In ModeStudy there is nothing remote
// to do beyond starting the clock.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	m.startedAt = time.Now()
	m.baseCtx = context.WithoutCancel(ctx)
	m.mu.Unlock()

	if m.mode == ModeStudy {
		return nil
	}

	initial := domain.NewBattleState()
	patch := duelstore.Patch{Stats: map[string]duelstore.StatsPatch{
		m.selfID.String(): {
			HP:           &initial.HP,
			Progress:     &initial.Progress,
			CurrentScore: &initial.CurrentScore,
			Judgment:     &initial.Judgment,
		},
	}}
	if err := m.store.Patch(ctx, m.duelID, patch); err != nil {
		return fmt.Errorf("failed to initialize battle state: %w", err)
	}

	unsub, err := m.store.Subscribe(m.duelID, m.ApplySnapshot)
	if err != nil {
		return fmt.Errorf("failed to subscribe to duel: %w", err)
	}
	m.mu.Lock()
	m.unsubscribe = unsub
	m.mu.Unlock()
	return nil
}

// Stop unsubscribes from the store. In-flight local state is discarded;
// writes already sent stand.
func (m *Machine) Stop() {
	m.mu.Lock()
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// CurrentCard returns the card being presented, or false when the deck
// cursor is at the end.
func (m *Machine) CurrentCard() (domain.Card, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor >= len(m.deck) {
		return domain.Card{}, false
	}
	return m.deck[m.cursor], true
}

// BeginAnswer moves Presenting to Answering when the player flips the
// card and starts composing an answer.
func (m *Machine) BeginAnswer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhasePresenting {
		return fmt.Errorf("%w: cannot answer in phase %s", domain.ErrInvalidInput, m.phase)
	}
	m.phase = PhaseAnswering
	m.energy = scoring.ApplyEnergy(m.energy, scoring.EnergyDelta(false))
	return nil
}

// Submit records the answer for referee judgment (ModeJudged only):
// the machine writes its own currentAnswer, progress and score, resets
// its judgment to pending, and parks in AwaitingJudgment. No local
// timeout is imposed; an indefinitely silent referee leaves the machine
// waiting, never produces a spurious result.
func (m *Machine) Submit(ctx context.Context, answer *domain.AnswerPayload) error {
	if m.mode != ModeJudged {
		return fmt.Errorf("%w: submit requires a referee", domain.ErrInvalidInput)
	}
	if err := answer.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if m.phase != PhasePresenting && m.phase != PhaseAnswering {
		phase := m.phase
		m.mu.Unlock()
		return fmt.Errorf("%w: cannot submit in phase %s", domain.ErrInvalidInput, phase)
	}
	progress := scoring.Progress(m.cursor, len(m.deck))
	score := m.score
	m.phase = PhaseAwaitingJudgment
	m.waitingSince = time.Now()
	m.mu.Unlock()

	patch := duelstore.OwnSubmission(m.selfID, progress, score, answer)
	if err := m.store.Patch(ctx, m.duelID, patch); err != nil {
		// A transient store failure freezes the machine where it was; the
		// player can resubmit once the transport returns.
		m.mu.Lock()
		m.phase = PhaseAnswering
		m.waitingSince = time.Time{}
		m.mu.Unlock()
		return fmt.Errorf("failed to submit answer: %w", err)
	}
	return nil
}

// Review resolves the current card locally (ModeSelfJudged and
// ModeStudy): the outcome is scored immediately through the scoring
// functions and the machine advances without touching AwaitingJudgment.
func (m *Machine) Review(ctx context.Context, outcome scoring.Outcome) error {
	if m.mode == ModeJudged {
		return fmt.Errorf("%w: judged mode resolves via the referee", domain.ErrInvalidInput)
	}

	m.mu.Lock()
	if m.phase != PhasePresenting && m.phase != PhaseAnswering {
		phase := m.phase
		m.mu.Unlock()
		return fmt.Errorf("%w: cannot review in phase %s", domain.ErrInvalidInput, phase)
	}

	m.phase = PhaseResolved
	m.score += scoring.ScoreDelta(outcome)
	m.hp = scoring.ApplyHP(m.hp, scoring.HPDelta(outcome))
	if outcome.Correct() {
		m.correctCount++
	}
	progress := scoring.Progress(m.cursor, len(m.deck))
	hp, score := m.hp, m.score
	m.mu.Unlock()

	if m.mode == ModeSelfJudged {
		// The self-judged entry has no referee writer, so writing hp here
		// keeps the one-writer-per-field partition intact.
		patch := duelstore.Patch{Stats: map[string]duelstore.StatsPatch{
			m.selfID.String(): {HP: &hp, Progress: &progress, CurrentScore: &score},
		}}
		if err := m.store.Patch(ctx, m.duelID, patch); err != nil {
			logger.FromContext(ctx).Warn(LogMsgStatsWriteFailed, "error", err, "duel_id", m.duelID)
		}
	}

	m.advance(ctx)
	return nil
}

// ApplySnapshot is the single remote-transition function: it inspects
// the current merged document and moves the machine accordingly. Safe to
// call with duplicate or out-of-date snapshots.
func (m *Machine) ApplySnapshot(snapshot *domain.DuelSession) {
	m.mu.Lock()
	if m.finished {
		m.mu.Unlock()
		return
	}
	baseCtx := m.baseCtx

	own, ok := snapshot.Stats(m.selfID)
	if !ok {
		m.mu.Unlock()
		return
	}
	if err := own.Validate(); err != nil {
		// Discard the update and keep the prior known-good state
		m.mu.Unlock()
		logger.FromContext(baseCtx).Warn(LogMsgSnapshotDiscarded, "error", err, "duel_id", m.duelID)
		return
	}

	// A 0-HP entry on either side terminates the duel immediately,
	// regardless of the deck cursor.
	if own.HP == 0 {
		m.hp = 0
		m.mu.Unlock()
		m.finish(baseCtx)
		return
	}
	opp, hasOpp := snapshot.Stats(snapshot.OpponentOf(m.selfID))
	if hasOpp && opp.Validate() == nil && opp.HP == 0 {
		m.mu.Unlock()
		m.finish(baseCtx)
		return
	}

	if m.phase != PhaseAwaitingJudgment || own.Judgment == domain.JudgmentPending {
		m.mu.Unlock()
		return
	}

	// Referee has spoken: the verdict and the hp/score it wrote are
	// authoritative; the local deltas exist for display parity.
	m.phase = PhaseResolved
	outcome := scoring.FromJudgment(own.Judgment)
	m.score = own.CurrentScore
	m.hp = own.HP
	if outcome.Correct() {
		m.correctCount++
	}
	m.waitingSince = time.Time{}
	finishedByHP := m.hp == 0
	progress := scoring.Progress(m.cursor, len(m.deck))
	score := m.score
	m.mu.Unlock()

	if finishedByHP {
		m.finish(baseCtx)
		return
	}

	// Clear the judged answer and reset judgment for the next round;
	// both fields are self-owned.
	patch := duelstore.OwnAdvance(m.selfID, progress, score)
	if err := m.store.Patch(baseCtx, m.duelID, patch); err != nil {
		logger.FromContext(baseCtx).Warn(LogMsgStatsWriteFailed, "error", err, "duel_id", m.duelID)
	}

	m.advance(baseCtx)
}

// advance recharges energy, moves the cursor, and either presents the
// next card or finishes on deck exhaustion.
func (m *Machine) advance(ctx context.Context) {
	m.mu.Lock()
	m.energy = scoring.ApplyEnergy(m.energy, scoring.EnergyDelta(true))
	m.cursor++
	if m.cursor >= len(m.deck) {
		m.mu.Unlock()
		m.finish(ctx)
		return
	}
	m.phase = PhasePresenting
	m.mu.Unlock()
}

// finish reports the final tally exactly once. The store may redeliver
// the same terminal snapshot many times; every entry after the first is
// a no-op.
func (m *Machine) finish(ctx context.Context) {
	m.mu.Lock()
	if m.finished {
		m.mu.Unlock()
		return
	}
	m.finished = true
	m.phase = PhaseFinished
	result := domain.DuelResult{
		Score:        m.score,
		CorrectCount: m.correctCount,
		TotalCount:   len(m.deck),
		TimeSpent:    int(time.Since(m.startedAt).Seconds()),
		SubmittedAt:  time.Now(),
	}
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if m.completer == nil {
		return
	}
	if err := m.completer.Complete(ctx, m.duelID, m.selfID, result); err != nil {
		logger.FromContext(ctx).Error(LogMsgCompleteFailed, "error", err, "duel_id", m.duelID, "participant_id", m.selfID)
	}
}

// Phase returns the current machine phase
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// HP returns the locally known hit points
func (m *Machine) HP() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hp
}

// Score returns the locally known score
func (m *Machine) Score() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score
}

// Energy returns the pacing resource level
func (m *Machine) Energy() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.energy
}

// CorrectCount returns how many cards resolved correct so far
func (m *Machine) CorrectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.correctCount
}

// Waiting reports whether the machine is parked in AwaitingJudgment and
// since when, so callers can surface a "waiting for opponent" indicator.
func (m *Machine) Waiting() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitingSince, m.phase == PhaseAwaitingJudgment
}
