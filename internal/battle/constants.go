package battle

// Log messages
const (
	LogMsgSnapshotDiscarded = "Discarded malformed duel snapshot"
	LogMsgStatsWriteFailed  = "Failed to write battle stats"
	LogMsgCompleteFailed    = "Failed to report duel completion"
)
