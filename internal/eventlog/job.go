package eventlog

import (
	"context"
	"time"

	"github.com/rcsinavim/arena/internal/logger"
)

// MinRetentionDays floors the cleanup window. The event log is the only
// record of awarded XP and duel outcomes, so a misconfigured retention
// must not wipe recent history.
const MinRetentionDays = 7

// CleanupJob trims the duel audit log down to the retention window. It
// runs on the shared worker pool via the scheduler.
type CleanupJob struct {
	service       Service
	retentionDays int
}

// NewCleanupJob creates a cleanup job; retention below the floor is
// raised to MinRetentionDays.
func NewCleanupJob(service Service, retentionDays int) *CleanupJob {
	if retentionDays < MinRetentionDays {
		retentionDays = MinRetentionDays
	}
	return &CleanupJob{
		service:       service,
		retentionDays: retentionDays,
	}
}

// Process deletes events older than the retention window
func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCleanupJobStarting, LogFieldRetentionDays, j.retentionDays)

	start := time.Now()
	count, err := j.service.CleanupOldEvents(ctx, j.retentionDays)
	if err != nil {
		log.Error(LogMsgCleanupJobFailed, LogFieldError, err, LogFieldDuration, time.Since(start))
		return err
	}

	if count == 0 {
		log.Debug(LogMsgCleanupJobCompleted, LogFieldDeletedCount, 0, LogFieldDuration, time.Since(start))
		return nil
	}
	log.Info(LogMsgCleanupJobCompleted, LogFieldDeletedCount, count, LogFieldDuration, time.Since(start))
	return nil
}
