package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidUUIDParam  = "Invalid %s parameter"

	ErrMsgCreateDeckFailed  = "Failed to create deck"
	ErrMsgGetDeckFailed     = "Failed to get deck"
	ErrMsgChallengeFailed   = "Failed to create challenge"
	ErrMsgGetDuelFailed     = "Failed to get duel"
	ErrMsgListDuelsFailed   = "Failed to list duels"
	ErrMsgJoinDuelFailed    = "Failed to join duel"
	ErrMsgSubmitFailed      = "Failed to submit answer"
	ErrMsgAdvanceFailed     = "Failed to advance"
	ErrMsgJudgeFailed       = "Failed to record judgment"
	ErrMsgCompleteFailed    = "Failed to record result"
)

// Success messages for API responses
const (
	MsgChallengeCreated = "Challenge created"
	MsgAnswerSubmitted  = "Answer submitted"
	MsgAdvanced         = "Advanced to next card"
	MsgJudgmentRecorded = "Judgment recorded"
	MsgResultRecorded   = "Result recorded"
)
