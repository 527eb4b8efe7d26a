package deck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/event"
	"github.com/rcsinavim/arena/internal/logger"
	"github.com/rcsinavim/arena/internal/repository"
)

// Service defines the interface for shared deck operations
type Service interface {
	CreateSharedDeck(ctx context.Context, creatorID uuid.UUID, title, subject string, cards []domain.Card) (*domain.Deck, error)
	GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
}

type service struct {
	repo     repository.Deck
	eventBus event.Bus
	cache    *expirable.LRU[uuid.UUID, *domain.Deck]
	titler   cases.Caser
}

// NewService creates a new deck service. Decks are immutable once
// shared, so cache entries can never go stale within their TTL.
func NewService(repo repository.Deck, eventBus event.Bus, cacheSize int, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		eventBus: eventBus,
		cache:    expirable.NewLRU[uuid.UUID, *domain.Deck](cacheSize, nil, cacheTTL),
		// Subject names come from a Turkish-language client; Turkish casing
		// rules (dotted/dotless i) matter for display normalization.
		titler: cases.Title(language.Turkish),
	}
}

// CreateSharedDeck persists a titled, subject-tagged card list and
// announces it on the event bus.
func (s *service) CreateSharedDeck(ctx context.Context, creatorID uuid.UUID, title, subject string, cards []domain.Card) (*domain.Deck, error) {
	log := logger.FromContext(ctx)

	if len(cards) == 0 {
		return nil, domain.ErrDeckEmpty
	}
	title = strings.TrimSpace(title)
	subject = s.titler.String(strings.TrimSpace(subject))
	if title == "" {
		title = fmt.Sprintf(DefaultTitleFormat, subject)
	}

	deck := &domain.Deck{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Title:     title,
		Subject:   subject,
		Cards:     cards,
		IsPublic:  true,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateDeck(ctx, deck); err != nil {
		return nil, fmt.Errorf(ErrMsgCreateDeckFailed, err)
	}
	s.cache.Add(deck.ID, deck)

	if err := s.eventBus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.DeckShared,
		Payload: event.DeckSharedPayloadV1{
			DeckID:    deck.ID,
			CreatorID: creatorID,
			Title:     deck.Title,
			Subject:   subject,
			CardCount: len(cards),
		},
	}); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err, "deck_id", deck.ID)
	}

	log.Info(LogMsgDeckCreated, "deck_id", deck.ID, "subject", subject, "cards", len(cards))
	return deck, nil
}

// GetDeck returns the immutable ordered card sequence for a deck,
// serving from the LRU cache when possible.
func (s *service) GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	if deck, ok := s.cache.Get(id); ok {
		return deck, nil
	}

	deck, err := s.repo.GetDeck(ctx, id)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetDeckFailed, err)
	}
	if deck == nil {
		return nil, domain.ErrDeckNotFound
	}

	s.cache.Add(id, deck)
	return deck, nil
}
