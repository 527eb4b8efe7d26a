package worker

// Log messages for the worker pool
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
)

// Log messages for the duel expiry job
const (
	LogMsgExpiryTick      = "Checking for lapsed duel challenges"
	LogMsgExpiryCompleted = "Expired lapsed duel challenges"
	LogMsgExpiryFailed    = "Failed to expire lapsed duel challenges"
)
