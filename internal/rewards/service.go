// Package rewards is the gamification ledger collaborator: XP awards
// and recorded actions. Reward settlement is the only duel side effect
// the user directly cares about, so its failures surface as retryable
// errors instead of being swallowed.
package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/event"
	"github.com/rcsinavim/arena/internal/logger"
	"github.com/rcsinavim/arena/internal/metrics"
	"github.com/rcsinavim/arena/internal/repository"
)

// Service defines the interface for the rewards collaborator
type Service interface {
	AwardXP(ctx context.Context, userID uuid.UUID, amount int, reason string) error
	RecordAction(ctx context.Context, userID uuid.UUID, action string, value int) error
}

type service struct {
	repo     repository.Rewards
	eventBus event.Bus
}

// NewService creates a new rewards service
func NewService(repo repository.Rewards, eventBus event.Bus) Service {
	return &service{
		repo:     repo,
		eventBus: eventBus,
	}
}

// AwardXP credits XP to a user and announces the award
func (s *service) AwardXP(ctx context.Context, userID uuid.UUID, amount int, reason string) error {
	log := logger.FromContext(ctx)

	if amount <= 0 {
		return fmt.Errorf("%w: xp amount must be positive", domain.ErrInvalidInput)
	}

	total, err := s.repo.AddXP(ctx, userID, amount)
	if err != nil {
		return fmt.Errorf(ErrMsgAwardXPFailed, err)
	}
	metrics.XPAwarded.Add(float64(amount))

	if err := s.eventBus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.XPAwarded,
		Payload: event.XPAwardedPayloadV1{UserID: userID, Amount: amount, Reason: reason},
	}); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err, "user_id", userID)
	}

	log.Info(LogMsgXPAwarded, "user_id", userID, "amount", amount, "total", total, "reason", reason)
	return nil
}

// RecordAction appends a gamification action to the ledger
func (s *service) RecordAction(ctx context.Context, userID uuid.UUID, action string, value int) error {
	if action == "" {
		return fmt.Errorf("%w: action tag required", domain.ErrInvalidInput)
	}

	entry := &domain.GamificationAction{
		UserID:    userID,
		Action:    action,
		Value:     value,
		CreatedAt: time.Now(),
	}
	if err := s.repo.RecordAction(ctx, entry); err != nil {
		return fmt.Errorf(ErrMsgRecordActionFailed, err)
	}

	logger.FromContext(ctx).Debug(LogMsgActionRecorded, "user_id", userID, "action", action, "value", value)
	return nil
}
