package worker

import (
	"context"

	"github.com/rcsinavim/arena/internal/duel"
	"github.com/rcsinavim/arena/internal/logger"
)

// DuelExpiryJob marks lapsed pending challenges expired. Expiry is
// poll-based rather than timer-per-duel: challenges live for hours, so
// coarse sweeps are accurate enough and survive restarts. The scheduler
// enqueues this job at a fixed interval.
type DuelExpiryJob struct {
	duelService duel.Service
}

// NewDuelExpiryJob creates a new DuelExpiryJob
func NewDuelExpiryJob(duelService duel.Service) *DuelExpiryJob {
	return &DuelExpiryJob{duelService: duelService}
}

// Process runs one expiry sweep
func (j *DuelExpiryJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgExpiryTick)

	count, err := j.duelService.ExpirePending(ctx)
	if err != nil {
		log.Error(LogMsgExpiryFailed, "error", err)
		return err
	}
	if count > 0 {
		log.Info(LogMsgExpiryCompleted, "count", count)
	}
	return nil
}
