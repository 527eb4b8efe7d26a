package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/duelstore"
	"github.com/rcsinavim/arena/internal/logger"
	"github.com/rcsinavim/arena/internal/metrics"
	"github.com/rcsinavim/arena/internal/scoring"
)

// BattleHandler exposes the live battle state of a duel. Participants and
// the referee patch their owned field groups directly; the server upholds
// role checks but never rewrites fields the caller does not own.
type BattleHandler struct {
	store duelstore.Store
}

// NewBattleHandler creates a new battle handler
func NewBattleHandler(store duelstore.Store) *BattleHandler {
	return &BattleHandler{store: store}
}

// AnswerRequest is the answer payload of a submission
type AnswerRequest struct {
	Kind    string `json:"kind" validate:"required,answerkind"`
	Path    string `json:"path,omitempty" validate:"max=65536"`
	Outcome string `json:"outcome,omitempty" validate:"swipeoutcome"`
}

// SubmitRequest is the body for a participant's answer submission
type SubmitRequest struct {
	UserID   string        `json:"user_id" validate:"required,uuid"`
	Progress int           `json:"progress" validate:"min=0,max=100"`
	Score    int           `json:"score" validate:"min=0"`
	Answer   AnswerRequest `json:"answer" validate:"required"`
}

// HandleSubmit writes a participant's answer submission field group:
// progress, score, the answer payload, and a judgment reset to pending.
func (h *BattleHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDURLParam(r, w, "duelID")
	if !ok {
		return
	}

	var req SubmitRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Submit answer"); err != nil {
		return
	}
	userID, ok := parseUUIDField(w, req.UserID, "user_id")
	if !ok {
		return
	}

	answer := &domain.AnswerPayload{
		Kind:    domain.AnswerKind(req.Answer.Kind),
		Path:    req.Answer.Path,
		Outcome: domain.SwipeOutcome(req.Answer.Outcome),
	}
	if err := answer.Validate(); err != nil {
		respondServiceError(w, r, ErrMsgSubmitFailed, err)
		return
	}

	if _, err := h.loadActiveForParticipant(r, duelID, userID); err != nil {
		respondServiceError(w, r, ErrMsgSubmitFailed, err)
		return
	}

	patch := duelstore.OwnSubmission(userID, req.Progress, req.Score, answer)
	if err := h.store.Patch(r.Context(), duelID, patch); err != nil {
		respondServiceError(w, r, ErrMsgSubmitFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgAnswerSubmitted})
}

// AdvanceRequest is the body for moving past a resolved card
type AdvanceRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	Progress int    `json:"progress" validate:"min=0,max=100"`
	Score    int    `json:"score" validate:"min=0"`
}

// HandleAdvance clears the judged answer and writes the participant's
// post-resolution progress and score.
func (h *BattleHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDURLParam(r, w, "duelID")
	if !ok {
		return
	}

	var req AdvanceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Advance"); err != nil {
		return
	}
	userID, ok := parseUUIDField(w, req.UserID, "user_id")
	if !ok {
		return
	}

	if _, err := h.loadActiveForParticipant(r, duelID, userID); err != nil {
		respondServiceError(w, r, ErrMsgAdvanceFailed, err)
		return
	}

	patch := duelstore.OwnAdvance(userID, req.Progress, req.Score)
	if err := h.store.Patch(r.Context(), duelID, patch); err != nil {
		respondServiceError(w, r, ErrMsgAdvanceFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgAdvanced})
}

// JudgeRequest is the body for a referee verdict. AnswerKey optionally
// pins the verdict to one specific answer, so a request retried after
// the opponent resubmitted cannot judge the newer answer.
type JudgeRequest struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	Correct   bool   `json:"correct"`
	AnswerKey string `json:"answer_key,omitempty" validate:"omitempty,len=16,hexadecimal"`
}

// JudgeResponse reports the opponent stats the verdict produced
type JudgeResponse struct {
	Message  string `json:"message"`
	HP       int    `json:"hp"`
	Score    int    `json:"score"`
	Judgment string `json:"judgment"`
}

// HandleJudge records the referee's verdict on the opponent's pending
// answer and writes the resulting hp, score, and judgment to the
// opponent's entry.
func (h *BattleHandler) HandleJudge(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDURLParam(r, w, "duelID")
	if !ok {
		return
	}

	var req JudgeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Judge"); err != nil {
		return
	}
	userID, ok := parseUUIDField(w, req.UserID, "user_id")
	if !ok {
		return
	}

	session, err := h.loadActiveForParticipant(r, duelID, userID)
	if err != nil {
		respondServiceError(w, r, ErrMsgJudgeFailed, err)
		return
	}
	if !session.IsReferee(userID) {
		respondServiceError(w, r, ErrMsgJudgeFailed, domain.ErrNotReferee)
		return
	}

	opponentID := session.OpponentOf(userID)
	oppStats, joined := session.Stats(opponentID)
	if !joined || oppStats.CurrentAnswer == nil {
		respondServiceError(w, r, ErrMsgJudgeFailed, domain.ErrNoAnswerSubmitted)
		return
	}
	if oppStats.Judgment != domain.JudgmentPending {
		// The current answer already carries a verdict. A retried request
		// gets the recorded values back; hp and score are charged at most
		// once per answer.
		respondJSON(w, http.StatusOK, JudgeResponse{
			Message:  MsgJudgmentRecorded,
			HP:       oppStats.HP,
			Score:    oppStats.CurrentScore,
			Judgment: string(oppStats.Judgment),
		})
		return
	}
	if req.AnswerKey != "" && req.AnswerKey != oppStats.CurrentAnswer.Key() {
		respondServiceError(w, r, ErrMsgJudgeFailed, domain.ErrDuplicateJudgment)
		return
	}

	outcome := scoring.OutcomeMiss
	judgment := domain.JudgmentWrong
	if req.Correct {
		outcome = scoring.OutcomePerfect
		judgment = domain.JudgmentCorrect
	}
	hp := scoring.ApplyHP(oppStats.HP, scoring.HPDelta(outcome))
	score := oppStats.CurrentScore + scoring.ScoreDelta(outcome)

	patch := duelstore.Verdict(opponentID, hp, score, judgment)
	if err := h.store.Patch(r.Context(), duelID, patch); err != nil {
		respondServiceError(w, r, ErrMsgJudgeFailed, err)
		return
	}
	metrics.JudgmentsRecorded.WithLabelValues(string(judgment)).Inc()

	log := logger.FromContext(r.Context())
	log.Info("Verdict recorded", "duel_id", duelID, "opponent_id", opponentID, "judgment", judgment, "hp", hp)

	respondJSON(w, http.StatusOK, JudgeResponse{
		Message:  MsgJudgmentRecorded,
		HP:       hp,
		Score:    score,
		Judgment: string(judgment),
	})
}

// HandleGetState returns the current merged duel document
func (h *BattleHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDURLParam(r, w, "duelID")
	if !ok {
		return
	}

	session, err := h.store.Get(r.Context(), duelID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetDuelFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// loadActiveForParticipant loads the duel document and verifies the
// caller takes part in a still-running duel.
func (h *BattleHandler) loadActiveForParticipant(r *http.Request, duelID, userID uuid.UUID) (*domain.DuelSession, error) {
	session, err := h.store.Get(r.Context(), duelID)
	if err != nil {
		return nil, err
	}
	if !session.IsParticipant(userID) {
		return nil, domain.ErrNotAParticipant
	}
	switch session.Status {
	case domain.DuelStatusCompleted, domain.DuelStatusExpired:
		return nil, domain.ErrDuelCompleted
	case domain.DuelStatusPending:
		return nil, domain.ErrDuelNotActive
	}
	return session, nil
}
