package handler

import (
	"net/http"
	"time"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/duel"
	"github.com/rcsinavim/arena/internal/logger"
)

// DuelHandler groups the duel lifecycle endpoints
type DuelHandler struct {
	duelService duel.Service
}

// NewDuelHandler creates a new duel handler
func NewDuelHandler(duelService duel.Service) *DuelHandler {
	return &DuelHandler{duelService: duelService}
}

// ChallengeRequest is the body for creating a duel challenge
type ChallengeRequest struct {
	ChallengerID string `json:"challenger_id" validate:"required,uuid"`
	OpponentID   string `json:"opponent_id" validate:"required,uuid"`
	DeckID       string `json:"deck_id" validate:"required,uuid"`
}

// DuelResponse is the API shape of a duel session
type DuelResponse struct {
	ID           string     `json:"id"`
	ChallengerID string     `json:"challenger_id"`
	OpponentID   string     `json:"opponent_id"`
	DeckID       string     `json:"deck_id"`
	Status       string     `json:"status"`
	WinnerID     string     `json:"winner_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// DuelSummaryResponse is one entry in a user's duel list
type DuelSummaryResponse struct {
	ID           string    `json:"id"`
	DeckID       string    `json:"deck_id"`
	DeckTitle    string    `json:"deck_title"`
	OpponentID   string    `json:"opponent_id"`
	OpponentName string    `json:"opponent_name"`
	Status       string    `json:"status"`
	IsChallenger bool      `json:"is_challenger"`
	CreatedAt    time.Time `json:"created_at"`
}

// HandleChallenge creates a pending duel challenge
func (h *DuelHandler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Challenge"); err != nil {
		return
	}

	challengerID, ok := parseUUIDField(w, req.ChallengerID, "challenger_id")
	if !ok {
		return
	}
	opponentID, ok := parseUUIDField(w, req.OpponentID, "opponent_id")
	if !ok {
		return
	}
	deckID, ok := parseUUIDField(w, req.DeckID, "deck_id")
	if !ok {
		return
	}

	session, err := h.duelService.Challenge(r.Context(), challengerID, opponentID, deckID)
	if err != nil {
		respondServiceError(w, r, ErrMsgChallengeFailed, err)
		return
	}

	respondJSON(w, http.StatusCreated, duelResponse(session))
}

// HandleGetDuel returns a duel's durable record
func (h *DuelHandler) HandleGetDuel(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDURLParam(r, w, "duelID")
	if !ok {
		return
	}

	session, err := h.duelService.GetDuel(r.Context(), duelID)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetDuelFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, duelResponse(session))
}

// HandleListDuels returns a user's duels, newest first
func (h *DuelHandler) HandleListDuels(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUUIDQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	summaries, err := h.duelService.GetUserDuels(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, ErrMsgListDuelsFailed, err)
		return
	}

	resp := make([]DuelSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, DuelSummaryResponse{
			ID:           s.ID.String(),
			DeckID:       s.DeckID.String(),
			DeckTitle:    s.DeckTitle,
			OpponentID:   s.OpponentID.String(),
			OpponentName: s.OpponentName,
			Status:       string(s.Status),
			IsChallenger: s.IsChallenger,
			CreatedAt:    s.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: resp})
}

// JoinRequest is the body for joining a duel
type JoinRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// JoinResponse returns the joined session with the deck to play
type JoinResponse struct {
	Duel DuelResponse `json:"duel"`
	Deck DeckResponse `json:"deck"`
}

// HandleJoin initializes the caller's battle state and activates the
// duel once both sides have joined
func (h *DuelHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDURLParam(r, w, "duelID")
	if !ok {
		return
	}

	var req JoinRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Join duel"); err != nil {
		return
	}
	userID, ok := parseUUIDField(w, req.UserID, "user_id")
	if !ok {
		return
	}

	session, deckData, err := h.duelService.Join(r.Context(), duelID, userID)
	if err != nil {
		respondServiceError(w, r, ErrMsgJoinDuelFailed, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("Participant joined duel", "duel_id", duelID, "user_id", userID, "status", session.Status)

	respondJSON(w, http.StatusOK, JoinResponse{
		Duel: duelResponse(session),
		Deck: deckResponse(deckData),
	})
}

// CompleteRequest is the body for reporting a participant's final tally
type CompleteRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	Score        int    `json:"score" validate:"min=0"`
	CorrectCount int    `json:"correct_count" validate:"min=0"`
	TotalCount   int    `json:"total_count" validate:"min=0"`
	TimeSpent    int    `json:"time_spent" validate:"min=0"`
}

// HandleComplete records one side's final result and settles rewards
func (h *DuelHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	duelID, ok := GetUUIDURLParam(r, w, "duelID")
	if !ok {
		return
	}

	var req CompleteRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Complete duel"); err != nil {
		return
	}
	userID, ok := parseUUIDField(w, req.UserID, "user_id")
	if !ok {
		return
	}

	result := domain.DuelResult{
		Score:        req.Score,
		CorrectCount: req.CorrectCount,
		TotalCount:   req.TotalCount,
		TimeSpent:    req.TimeSpent,
	}

	if err := h.duelService.Complete(r.Context(), duelID, userID, result); err != nil {
		respondServiceError(w, r, ErrMsgCompleteFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgResultRecorded})
}

func duelResponse(d *domain.DuelSession) DuelResponse {
	resp := DuelResponse{
		ID:           d.ID.String(),
		ChallengerID: d.ChallengerID.String(),
		OpponentID:   d.OpponentID.String(),
		DeckID:       d.DeckID.String(),
		Status:       string(d.Status),
		CreatedAt:    d.CreatedAt,
		ExpiresAt:    d.ExpiresAt,
		CompletedAt:  d.CompletedAt,
	}
	if d.WinnerID != nil {
		resp.WinnerID = d.WinnerID.String()
	}
	return resp
}
