package handler

import (
	"net/http"

	"github.com/rcsinavim/arena/internal/deck"
	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/logger"
)

// CardRequest is one flashcard in a deck creation request
type CardRequest struct {
	Front   string `json:"front" validate:"required,max=2000"`
	Back    string `json:"back" validate:"required,max=2000"`
	Subject string `json:"subject" validate:"max=100"`
}

// CreateDeckRequest is the body for sharing a deck
type CreateDeckRequest struct {
	CreatorID string        `json:"creator_id" validate:"required,uuid"`
	Title     string        `json:"title" validate:"max=200"`
	Subject   string        `json:"subject" validate:"required,max=100"`
	Cards     []CardRequest `json:"cards" validate:"required,min=1,dive"`
}

// DeckResponse is the API shape of a shared deck
type DeckResponse struct {
	ID        string        `json:"id"`
	CreatorID string        `json:"creator_id"`
	Title     string        `json:"title"`
	Subject   string        `json:"subject"`
	Cards     []CardRequest `json:"cards"`
}

// HandleCreateDeck shares a flashcard deck for dueling
func HandleCreateDeck(deckSvc deck.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDeckRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create deck"); err != nil {
			return
		}

		creatorID, ok := parseUUIDField(w, req.CreatorID, "creator_id")
		if !ok {
			return
		}

		cards := make([]domain.Card, 0, len(req.Cards))
		for _, c := range req.Cards {
			cards = append(cards, domain.Card{Front: c.Front, Back: c.Back, Subject: c.Subject})
		}

		created, err := deckSvc.CreateSharedDeck(r.Context(), creatorID, req.Title, req.Subject, cards)
		if err != nil {
			respondServiceError(w, r, ErrMsgCreateDeckFailed, err)
			return
		}

		log := logger.FromContext(r.Context())
		log.Info("Deck created", "deck_id", created.ID, "cards", len(created.Cards))

		respondJSON(w, http.StatusCreated, deckResponse(created))
	}
}

// HandleGetDeck returns a shared deck with its ordered cards
func HandleGetDeck(deckSvc deck.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID, ok := GetUUIDURLParam(r, w, "deckID")
		if !ok {
			return
		}

		found, err := deckSvc.GetDeck(r.Context(), deckID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetDeckFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, deckResponse(found))
	}
}

func deckResponse(d *domain.Deck) DeckResponse {
	cards := make([]CardRequest, 0, len(d.Cards))
	for _, c := range d.Cards {
		cards = append(cards, CardRequest{Front: c.Front, Back: c.Back, Subject: c.Subject})
	}
	return DeckResponse{
		ID:        d.ID.String(),
		CreatorID: d.CreatorID.String(),
		Title:     d.Title,
		Subject:   d.Subject,
		Cards:     cards,
	}
}
