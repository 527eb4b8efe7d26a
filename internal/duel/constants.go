package duel

// BaseReward is the flat XP granted for finishing a duel, on top of the
// final score.
const BaseReward = 50

// Log messages
const (
	LogMsgDuelChallenged    = "duel challenged"
	LogMsgDuelCompleted     = "duel completed"
	LogMsgResultRecorded    = "duel result recorded"
	LogMsgAlreadyCompleted  = "result reported after completion"
	LogMsgPublishFailed     = "failed to publish event"
	LogMsgDeckTitleFailed   = "failed to resolve deck title"
	LogMsgResultPatchFailed = "failed to patch result into duel document"
	LogMsgExpirePatchFailed = "failed to patch expired status into duel document"
)
