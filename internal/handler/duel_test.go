package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rcsinavim/arena/internal/domain"
)

type mockDuelService struct {
	mock.Mock
}

func (m *mockDuelService) Challenge(ctx context.Context, challengerID, opponentID, deckID uuid.UUID) (*domain.DuelSession, error) {
	args := m.Called(ctx, challengerID, opponentID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DuelSession), args.Error(1)
}

func (m *mockDuelService) GetDuel(ctx context.Context, id uuid.UUID) (*domain.DuelSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DuelSession), args.Error(1)
}

func (m *mockDuelService) GetUserDuels(ctx context.Context, userID uuid.UUID) ([]domain.DuelSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DuelSummary), args.Error(1)
}

func (m *mockDuelService) Join(ctx context.Context, duelID, participantID uuid.UUID) (*domain.DuelSession, *domain.Deck, error) {
	args := m.Called(ctx, duelID, participantID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.DuelSession), args.Get(1).(*domain.Deck), args.Error(2)
}

func (m *mockDuelService) Complete(ctx context.Context, duelID, participantID uuid.UUID, result domain.DuelResult) error {
	args := m.Called(ctx, duelID, participantID, result)
	return args.Error(0)
}

func (m *mockDuelService) ExpirePending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newDuelRouter(svc *mockDuelService) chi.Router {
	h := NewDuelHandler(svc)
	r := chi.NewRouter()
	r.Route("/duel", func(r chi.Router) {
		r.Post("/", h.HandleChallenge)
		r.Get("/", h.HandleListDuels)
		r.Route("/{duelID}", func(r chi.Router) {
			r.Get("/", h.HandleGetDuel)
			r.Post("/join", h.HandleJoin)
			r.Post("/result", h.HandleComplete)
		})
	})
	return r
}

func sampleSession() *domain.DuelSession {
	return &domain.DuelSession{
		ID:           uuid.New(),
		ChallengerID: uuid.New(),
		OpponentID:   uuid.New(),
		DeckID:       uuid.New(),
		Status:       domain.DuelStatusPending,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func TestHandleChallenge(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)
	session := sampleSession()

	svc.On("Challenge", mock.Anything, session.ChallengerID, session.OpponentID, session.DeckID).Return(session, nil)

	rec := postJSON(t, router, "/duel", ChallengeRequest{
		ChallengerID: session.ChallengerID.String(),
		OpponentID:   session.OpponentID.String(),
		DeckID:       session.DeckID.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp DuelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, session.ID.String(), resp.ID)
	assert.Equal(t, string(domain.DuelStatusPending), resp.Status)
	assert.Empty(t, resp.WinnerID)
	svc.AssertExpectations(t)
}

func TestHandleChallenge_SelfChallenge(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)
	userID := uuid.New()

	svc.On("Challenge", mock.Anything, userID, userID, mock.Anything).Return(nil, domain.ErrSelfChallenge)

	rec := postJSON(t, router, "/duel", ChallengeRequest{
		ChallengerID: userID.String(),
		OpponentID:   userID.String(),
		DeckID:       uuid.New().String(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgSelfChallengeError)
}

func TestHandleChallenge_MissingFields(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)

	rec := postJSON(t, router, "/duel", ChallengeRequest{ChallengerID: uuid.New().String()})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "opponentid")
	assert.Contains(t, resp.Fields, "deckid")
	svc.AssertNotCalled(t, "Challenge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGetDuel(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)
	session := sampleSession()
	winnerID := session.ChallengerID
	session.Status = domain.DuelStatusCompleted
	session.WinnerID = &winnerID

	svc.On("GetDuel", mock.Anything, session.ID).Return(session, nil)

	req := httptest.NewRequest(http.MethodGet, "/duel/"+session.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DuelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, winnerID.String(), resp.WinnerID)
}

func TestHandleGetDuel_NotFound(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)
	duelID := uuid.New()

	svc.On("GetDuel", mock.Anything, duelID).Return(nil, domain.ErrDuelNotFound)

	req := httptest.NewRequest(http.MethodGet, "/duel/"+duelID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListDuels(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)
	userID := uuid.New()

	svc.On("GetUserDuels", mock.Anything, userID).Return([]domain.DuelSummary{
		{ID: uuid.New(), DeckTitle: "Tarih Destesi", OpponentName: "mehmet7", Status: domain.DuelStatusActive, IsChallenger: true},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/duel?user_id="+userID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []DuelSummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Tarih Destesi", resp.Data[0].DeckTitle)
	assert.Equal(t, "mehmet7", resp.Data[0].OpponentName)
}

func TestHandleListDuels_MissingUserID(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/duel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleJoin(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)
	session := sampleSession()
	session.Status = domain.DuelStatusActive
	deckData := &domain.Deck{
		ID:    session.DeckID,
		Title: "Kelimeler",
		Cards: []domain.Card{{Front: "apple", Back: "elma", Subject: "ingilizce"}},
	}

	svc.On("Join", mock.Anything, session.ID, session.OpponentID).Return(session, deckData, nil)

	rec := postJSON(t, router, "/duel/"+session.ID.String()+"/join", JoinRequest{UserID: session.OpponentID.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp JoinResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.DuelStatusActive), resp.Duel.Status)
	require.Len(t, resp.Deck.Cards, 1)
	assert.Equal(t, "elma", resp.Deck.Cards[0].Back)
}

func TestHandleJoin_Completed(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)
	duelID, userID := uuid.New(), uuid.New()

	svc.On("Join", mock.Anything, duelID, userID).Return(nil, nil, domain.ErrDuelCompleted)

	rec := postJSON(t, router, "/duel/"+duelID.String()+"/join", JoinRequest{UserID: userID.String()})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleComplete(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)
	duelID, userID := uuid.New(), uuid.New()

	expected := domain.DuelResult{Score: 44, CorrectCount: 5, TotalCount: 6, TimeSpent: 120}
	svc.On("Complete", mock.Anything, duelID, userID, expected).Return(nil)

	rec := postJSON(t, router, "/duel/"+duelID.String()+"/result", CompleteRequest{
		UserID:       userID.String(),
		Score:        44,
		CorrectCount: 5,
		TotalCount:   6,
		TimeSpent:    120,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgResultRecorded)
	svc.AssertExpectations(t)
}

func TestHandleComplete_NegativeScore(t *testing.T) {
	svc := &mockDuelService{}
	router := newDuelRouter(svc)

	rec := postJSON(t, router, "/duel/"+uuid.New().String()+"/result", CompleteRequest{
		UserID: uuid.New().String(),
		Score:  -5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
