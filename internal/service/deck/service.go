package deck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type deckRepo interface {
	GetByID(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*domain.Deck, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Deck, error)
}

type cardRepo interface {
	ListByDeckID(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)
	Create(ctx context.Context, deckID uuid.UUID, front, back string, example *string) (*domain.Card, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service manages a user's decks and the cards inside them.
type Service struct {
	decks deckRepo
	cards cardRepo
	log   *slog.Logger
}

// NewService creates a new Deck service.
func NewService(log *slog.Logger, decks deckRepo, cards cardRepo) *Service {
	return &Service{
		decks: decks,
		cards: cards,
		log:   log.With("service", "deck"),
	}
}

// CreateDeck creates a deck owned by the current user.
func (s *Service) CreateDeck(ctx context.Context, input CreateDeckInput) (*domain.Deck, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	input.Title = strings.TrimSpace(input.Title)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	deck, err := s.decks.Create(ctx, userID, input.Title, strings.TrimSpace(input.Description))
	if err != nil {
		return nil, fmt.Errorf("create deck: %w", err)
	}

	s.log.InfoContext(ctx, "deck created",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deck.ID.String()),
	)
	return deck, nil
}

// ListDecks returns the current user's decks, newest first.
func (s *Service) ListDecks(ctx context.Context, input ListDecksInput) ([]domain.Deck, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	decks, err := s.decks.ListByOwner(ctx, userID, input.Limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

// AddCard appends a card to one of the current user's decks.
func (s *Service) AddCard(ctx context.Context, input AddCardInput) (*domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	input.Front = strings.TrimSpace(input.Front)
	input.Back = strings.TrimSpace(input.Back)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, userID, input.DeckID); err != nil {
		return nil, err
	}

	card, err := s.cards.Create(ctx, input.DeckID, input.Front, input.Back, input.Example)
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	s.log.InfoContext(ctx, "card added",
		slog.String("deck_id", input.DeckID.String()),
		slog.String("card_id", card.ID.String()),
	)
	return card, nil
}

// ListCards returns the cards of one of the current user's decks in deck order.
func (s *Service) ListCards(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := s.checkOwner(ctx, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListByDeckID(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (s *Service) checkOwner(ctx context.Context, userID, deckID uuid.UUID) error {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return fmt.Errorf("get deck: %w", err)
	}
	if deck.OwnerID != userID {
		return fmt.Errorf("deck %s: %w", deckID, domain.ErrNotFound)
	}
	return nil
}
