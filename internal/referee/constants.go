package referee

// Log messages
const (
	LogMsgDuplicateJudgment = "Ignoring duplicate judgment for already-judged answer"
	LogMsgVerdictWritten    = "Verdict written for opponent answer"
)
