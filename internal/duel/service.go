// Package duel orchestrates the duel lifecycle: challenge creation,
// joining, completion and reward settlement. Live battle progress flows
// through the duel store; this service owns the durable record and the
// terminal transitions.
package duel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/concurrency"
	"github.com/rcsinavim/arena/internal/deck"
	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/duelstore"
	"github.com/rcsinavim/arena/internal/event"
	"github.com/rcsinavim/arena/internal/logger"
	"github.com/rcsinavim/arena/internal/metrics"
	"github.com/rcsinavim/arena/internal/repository"
	"github.com/rcsinavim/arena/internal/rewards"
)

// Service defines the interface for duel lifecycle operations
type Service interface {
	Challenge(ctx context.Context, challengerID, opponentID, deckID uuid.UUID) (*domain.DuelSession, error)
	GetDuel(ctx context.Context, id uuid.UUID) (*domain.DuelSession, error)
	GetUserDuels(ctx context.Context, userID uuid.UUID) ([]domain.DuelSummary, error)
	Join(ctx context.Context, duelID, participantID uuid.UUID) (*domain.DuelSession, *domain.Deck, error)
	Complete(ctx context.Context, duelID, participantID uuid.UUID, result domain.DuelResult) error
	ExpirePending(ctx context.Context) (int, error)
}

type service struct {
	repo           repository.Duel
	userRepo       repository.User
	deckSvc        deck.Service
	store          duelstore.Store
	rewardsSvc     rewards.Service
	eventBus       event.Bus
	expireDuration time.Duration
	locks          *concurrency.DuelLocks
}

// NewService creates a new duel lifecycle service
func NewService(repo repository.Duel, userRepo repository.User, deckSvc deck.Service, store duelstore.Store, rewardsSvc rewards.Service, eventBus event.Bus, expireDuration time.Duration) Service {
	return &service{
		repo:           repo,
		userRepo:       userRepo,
		deckSvc:        deckSvc,
		store:          store,
		rewardsSvc:     rewardsSvc,
		eventBus:       eventBus,
		expireDuration: expireDuration,
		locks:          concurrency.NewDuelLocks(),
	}
}

// Challenge creates a pending duel over an already-shared deck
func (s *service) Challenge(ctx context.Context, challengerID, opponentID, deckID uuid.UUID) (*domain.DuelSession, error) {
	log := logger.FromContext(ctx)

	if challengerID == opponentID {
		return nil, domain.ErrSelfChallenge
	}
	if _, err := s.deckSvc.GetDeck(ctx, deckID); err != nil {
		return nil, fmt.Errorf("failed to verify deck: %w", err)
	}

	session := &domain.DuelSession{
		ID:           uuid.New(),
		ChallengerID: challengerID,
		OpponentID:   opponentID,
		DeckID:       deckID,
		Status:       domain.DuelStatusPending,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(s.expireDuration),
	}

	if err := s.repo.CreateDuel(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create duel: %w", err)
	}
	if _, err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create duel document: %w", err)
	}
	metrics.DuelsChallenged.Inc()

	if err := s.eventBus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.DuelChallenged,
		Payload: event.DuelChallengedPayloadV1{
			DuelID:       session.ID,
			ChallengerID: challengerID,
			OpponentID:   opponentID,
			DeckID:       deckID,
			ExpiresAt:    session.ExpiresAt,
		},
	}); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err, "duel_id", session.ID)
	}

	log.Info(LogMsgDuelChallenged, "duel_id", session.ID, "challenger_id", challengerID, "opponent_id", opponentID)
	return session, nil
}

// GetDuel retrieves a duel's durable record
func (s *service) GetDuel(ctx context.Context, id uuid.UUID) (*domain.DuelSession, error) {
	session, err := s.repo.GetDuel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get duel: %w", err)
	}
	if session == nil {
		return nil, domain.ErrDuelNotFound
	}
	return session, nil
}

// GetUserDuels lists a user's duels, newest first, enriched with deck
// titles and opponent display names.
func (s *service) GetUserDuels(ctx context.Context, userID uuid.UUID) ([]domain.DuelSummary, error) {
	sessions, err := s.repo.GetDuelsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list duels: %w", err)
	}

	opponentIDs := make([]uuid.UUID, 0, len(sessions))
	for _, d := range sessions {
		opponentIDs = append(opponentIDs, d.OpponentOf(userID))
	}
	names, err := s.userRepo.GetUsernames(ctx, opponentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve opponent names: %w", err)
	}

	summaries := make([]domain.DuelSummary, 0, len(sessions))
	for _, d := range sessions {
		oppID := d.OpponentOf(userID)
		title, err := s.deckTitle(ctx, d.DeckID)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgDeckTitleFailed, "error", err, "deck_id", d.DeckID)
		}
		summaries = append(summaries, domain.DuelSummary{
			ID:           d.ID,
			DeckID:       d.DeckID,
			DeckTitle:    title,
			OpponentID:   oppID,
			OpponentName: names[oppID],
			Status:       d.Status,
			IsChallenger: d.ChallengerID == userID,
			CreatedAt:    d.CreatedAt,
		})
	}
	return summaries, nil
}

// deckTitle resolves a deck's title through the deck service so list
// enrichment benefits from its cache.
func (s *service) deckTitle(ctx context.Context, deckID uuid.UUID) (string, error) {
	d, err := s.deckSvc.GetDeck(ctx, deckID)
	if err != nil {
		return "", err
	}
	return d.Title, nil
}

// Join initializes a participant's battle state in the duel document and
// activates the session once both entries exist. Returns the session and
// the deck the duel is played over.
func (s *service) Join(ctx context.Context, duelID, participantID uuid.UUID) (*domain.DuelSession, *domain.Deck, error) {
	// Both sides can join concurrently; the init-then-activate sequence
	// is a read-modify-write on the duel document.
	unlock := s.locks.Lock(duelID)
	defer unlock()

	session, err := s.store.Get(ctx, duelID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load duel document: %w", err)
	}
	if !session.IsParticipant(participantID) {
		return nil, nil, domain.ErrNotAParticipant
	}
	if session.Status == domain.DuelStatusCompleted || session.Status == domain.DuelStatusExpired {
		return nil, nil, domain.ErrDuelCompleted
	}

	deckData, err := s.deckSvc.GetDeck(ctx, session.DeckID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load deck: %w", err)
	}

	if _, joined := session.Stats(participantID); !joined {
		initial := domain.NewBattleState()
		patch := duelstore.Patch{Stats: map[string]duelstore.StatsPatch{
			participantID.String(): {
				HP:           &initial.HP,
				Progress:     &initial.Progress,
				CurrentScore: &initial.CurrentScore,
				Judgment:     &initial.Judgment,
			},
		}}
		if err := s.store.Patch(ctx, duelID, patch); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize battle state: %w", err)
		}
		session, err = s.store.Get(ctx, duelID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reload duel document: %w", err)
		}
	}

	if session.Status == domain.DuelStatusPending && session.BothJoined() {
		if err := s.activate(ctx, duelID); err != nil {
			return nil, nil, err
		}
		session.Status = domain.DuelStatusActive
	}

	return session, deckData, nil
}

func (s *service) activate(ctx context.Context, duelID uuid.UUID) error {
	active := domain.DuelStatusActive
	if err := s.store.Patch(ctx, duelID, duelstore.Patch{Status: &active}); err != nil {
		return fmt.Errorf("failed to activate duel document: %w", err)
	}
	if err := s.repo.UpdateDuelStatus(ctx, duelID, domain.DuelStatusActive); err != nil {
		return fmt.Errorf("failed to activate duel: %w", err)
	}
	metrics.DuelsActive.Inc()

	if err := s.eventBus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.DuelStarted,
		Payload: event.DuelStartedPayloadV1{DuelID: duelID},
	}); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err, "duel_id", duelID)
	}
	return nil
}

// Complete persists one participant's final tally and settles rewards
// for it. Each side reports independently, at its own time, with no
// coordination barrier: the session completes once both have reported,
// or as soon as a 0-HP termination is visible in the duel document,
// whichever comes first.
func (s *service) Complete(ctx context.Context, duelID, participantID uuid.UUID, result domain.DuelResult) error {
	log := logger.FromContext(ctx)

	session, err := s.store.Get(ctx, duelID)
	if err != nil {
		return fmt.Errorf("failed to load duel document: %w", err)
	}
	if !session.IsParticipant(participantID) {
		return domain.ErrNotAParticipant
	}

	result.SubmittedAt = time.Now()
	if err := s.repo.SaveResult(ctx, duelID, participantID, &result); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	res := result
	if err := s.store.Patch(ctx, duelID, duelstore.Patch{
		Results: map[string]*domain.DuelResult{participantID.String(): &res},
	}); err != nil {
		// The durable record is written; the live document catches up on
		// the finalization pass or the other side's report.
		log.Warn(LogMsgResultPatchFailed, "error", err, "duel_id", duelID)
	}

	// Reward settlement is per participant and independent of the other
	// side's progress.
	xp := BaseReward + result.Score
	if err := s.rewardsSvc.AwardXP(ctx, participantID, xp, rewards.ActionDuelWin); err != nil {
		return fmt.Errorf("failed to award xp: %w", err)
	}
	if err := s.rewardsSvc.RecordAction(ctx, participantID, rewards.ActionDuelWin, result.Score); err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}

	if session.Status == domain.DuelStatusCompleted {
		// A 0-HP termination already short-circuited this side's report;
		// the tally and rewards stand, the outcome does not change.
		log.Debug(LogMsgAlreadyCompleted, "duel_id", duelID, "participant_id", participantID)
		return nil
	}

	// Both sides can report concurrently; exactly one finalization must
	// win the terminal check.
	unlock := s.locks.Lock(duelID)
	defer unlock()

	session, err = s.store.Get(ctx, duelID)
	if err != nil {
		return fmt.Errorf("failed to reload duel document: %w", err)
	}
	if session.Status != domain.DuelStatusCompleted && s.terminal(session) {
		if err := s.finalize(ctx, session); err != nil {
			return err
		}
	}

	log.Info(LogMsgResultRecorded, "duel_id", duelID, "participant_id", participantID, "score", result.Score)
	return nil
}

// terminal reports whether the session has reached a completion
// condition: both results present, or one side at 0 HP.
func (s *service) terminal(session *domain.DuelSession) bool {
	if len(session.Results) >= 2 {
		return true
	}
	for _, id := range []uuid.UUID{session.ChallengerID, session.OpponentID} {
		if stats, ok := session.Stats(id); ok && stats.HP == 0 {
			return true
		}
	}
	return false
}

// finalize resolves the winner and marks the session completed in both
// the store and the durable record.
func (s *service) finalize(ctx context.Context, session *domain.DuelSession) error {
	winnerID := resolveWinner(session)
	completed := domain.DuelStatusCompleted
	now := time.Now()

	patch := duelstore.Patch{Status: &completed}
	if winnerID != nil {
		patch.WinnerID = winnerID
	}
	if err := s.store.Patch(ctx, session.ID, patch); err != nil {
		return fmt.Errorf("failed to complete duel document: %w", err)
	}
	if err := s.repo.CompleteDuel(ctx, session.ID, winnerID, now); err != nil {
		return fmt.Errorf("failed to complete duel: %w", err)
	}
	metrics.DuelsCompleted.Inc()
	metrics.DuelsActive.Dec()

	if err := s.eventBus.Publish(ctx, event.NewDuelCompleted(session.ID, winnerID)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err, "duel_id", session.ID)
	}

	logger.FromContext(ctx).Info(LogMsgDuelCompleted, "duel_id", session.ID, "winner_id", winnerID)
	return nil
}

// resolveWinner applies the outcome rule: a 0-HP side loses outright;
// otherwise the higher final score wins, ties break on remaining hp, and
// a full tie has no winner.
func resolveWinner(session *domain.DuelSession) *uuid.UUID {
	challenger, opponent := session.ChallengerID, session.OpponentID
	cStats, _ := session.Stats(challenger)
	oStats, _ := session.Stats(opponent)

	if cStats.HP == 0 && oStats.HP > 0 {
		return &opponent
	}
	if oStats.HP == 0 && cStats.HP > 0 {
		return &challenger
	}

	cScore, oScore := cStats.CurrentScore, oStats.CurrentScore
	if res, ok := session.Results[challenger.String()]; ok {
		cScore = res.Score
	}
	if res, ok := session.Results[opponent.String()]; ok {
		oScore = res.Score
	}

	switch {
	case cScore > oScore:
		return &challenger
	case oScore > cScore:
		return &opponent
	case cStats.HP > oStats.HP:
		return &challenger
	case oStats.HP > cStats.HP:
		return &opponent
	}
	return nil
}

// ExpirePending marks lapsed pending challenges expired. Invoked
// periodically by the expiry worker.
func (s *service) ExpirePending(ctx context.Context) (int, error) {
	ids, err := s.repo.ExpirePendingDuels(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire duels: %w", err)
	}

	expired := domain.DuelStatusExpired
	for _, id := range ids {
		if err := s.store.Patch(ctx, id, duelstore.Patch{Status: &expired}); err != nil {
			logger.FromContext(ctx).Warn(LogMsgExpirePatchFailed, "error", err, "duel_id", id)
		}
		if err := s.eventBus.Publish(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.DuelExpired,
			Payload: event.DuelExpiredPayloadV1{DuelID: id},
		}); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err, "duel_id", id)
		}
	}
	return len(ids), nil
}
