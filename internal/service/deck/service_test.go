package deck

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type deckRepoMock struct {
	GetByIDFunc     func(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)
	CreateFunc      func(ctx context.Context, ownerID uuid.UUID, title, description string) (*domain.Deck, error)
	ListByOwnerFunc func(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Deck, error)
}

func (m *deckRepoMock) GetByID(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	return m.GetByIDFunc(ctx, deckID)
}

func (m *deckRepoMock) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*domain.Deck, error) {
	return m.CreateFunc(ctx, ownerID, title, description)
}

func (m *deckRepoMock) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Deck, error) {
	return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
}

type cardRepoMock struct {
	ListByDeckIDFunc func(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)
	CreateFunc       func(ctx context.Context, deckID uuid.UUID, front, back string, example *string) (*domain.Card, error)
}

func (m *cardRepoMock) ListByDeckID(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	return m.ListByDeckIDFunc(ctx, deckID)
}

func (m *cardRepoMock) Create(ctx context.Context, deckID uuid.UUID, front, back string, example *string) (*domain.Card, error) {
	return m.CreateFunc(ctx, deckID, front, back, example)
}

func newTestService(decks *deckRepoMock, cards *cardRepoMock) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), decks, cards)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestService_CreateDeck(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	var gotOwner uuid.UUID
	var gotTitle string
	decks := &deckRepoMock{
		CreateFunc: func(_ context.Context, ownerID uuid.UUID, title, description string) (*domain.Deck, error) {
			gotOwner, gotTitle = ownerID, title
			return &domain.Deck{ID: uuid.New(), OwnerID: ownerID, Title: title, Description: description}, nil
		},
	}
	svc := newTestService(decks, &cardRepoMock{})

	deck, err := svc.CreateDeck(ctx, CreateDeckInput{Title: "  Kanji N5  "})
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	if gotOwner != userID {
		t.Errorf("owner: got %s, want %s", gotOwner, userID)
	}
	if gotTitle != "Kanji N5" || deck.Title != "Kanji N5" {
		t.Errorf("title not trimmed: %q", gotTitle)
	}
}

func TestService_CreateDeck_Validation(t *testing.T) {
	t.Parallel()
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	svc := newTestService(&deckRepoMock{}, &cardRepoMock{})

	_, err := svc.CreateDeck(ctx, CreateDeckInput{Title: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestService_CreateDeck_Unauthorized(t *testing.T) {
	t.Parallel()
	svc := newTestService(&deckRepoMock{}, &cardRepoMock{})

	_, err := svc.CreateDeck(context.Background(), CreateDeckInput{Title: "x"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestService_ListDecks(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	decks := &deckRepoMock{
		ListByOwnerFunc: func(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Deck, error) {
			if ownerID != userID || limit != 10 || offset != 20 {
				t.Errorf("ListByOwner args: %s %d %d", ownerID, limit, offset)
			}
			return []domain.Deck{{ID: uuid.New(), OwnerID: ownerID}}, nil
		},
	}
	svc := newTestService(decks, &cardRepoMock{})

	got, err := svc.ListDecks(ctx, ListDecksInput{Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("ListDecks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListDecks: got %d decks, want 1", len(got))
	}

	if _, err := svc.ListDecks(ctx, ListDecksInput{Limit: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative limit, got %v", err)
	}
}

func TestService_AddCard(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	own := domain.Deck{ID: uuid.New(), OwnerID: userID}
	foreign := domain.Deck{ID: uuid.New(), OwnerID: uuid.New()}

	decks := &deckRepoMock{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
			switch id {
			case own.ID:
				return &own, nil
			case foreign.ID:
				return &foreign, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	created := 0
	cards := &cardRepoMock{
		CreateFunc: func(_ context.Context, deckID uuid.UUID, front, back string, example *string) (*domain.Card, error) {
			created++
			return &domain.Card{ID: uuid.New(), DeckID: deckID, Front: front, Back: back, Example: example}, nil
		},
	}
	svc := newTestService(decks, cards)

	card, err := svc.AddCard(ctx, AddCardInput{DeckID: own.ID, Front: " la casa ", Back: "the house"})
	if err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if card.Front != "la casa" {
		t.Errorf("front not trimmed: %q", card.Front)
	}

	_, err = svc.AddCard(ctx, AddCardInput{DeckID: foreign.ID, Front: "a", Back: "b"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign deck, got %v", err)
	}

	_, err = svc.AddCard(ctx, AddCardInput{DeckID: own.ID})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %v", err)
	}

	if created != 1 {
		t.Errorf("Create called %d times, want 1", created)
	}
}

func TestService_ListCards(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	own := domain.Deck{ID: uuid.New(), OwnerID: userID}

	decks := &deckRepoMock{
		GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Deck, error) { return &own, nil },
	}
	cards := &cardRepoMock{
		ListByDeckIDFunc: func(_ context.Context, deckID uuid.UUID) ([]domain.Card, error) {
			return []domain.Card{{ID: uuid.New(), DeckID: deckID}, {ID: uuid.New(), DeckID: deckID}}, nil
		},
	}
	svc := newTestService(decks, cards)

	got, err := svc.ListCards(ctx, own.ID)
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListCards: got %d, want 2", len(got))
	}
}
