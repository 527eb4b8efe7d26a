package rewards

// Well-known action tags
const (
	ActionDuelWin = "flashcard_duel_win"
)

// Error message formats
const (
	ErrMsgAwardXPFailed      = "failed to award xp: %w"
	ErrMsgRecordActionFailed = "failed to record action: %w"
)

// Log messages
const (
	LogMsgXPAwarded      = "XP awarded"
	LogMsgActionRecorded = "Gamification action recorded"
	LogMsgPublishFailed  = "Failed to publish xp event"
)
