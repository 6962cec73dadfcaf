package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/internal/service/deck"
)

// deckService defines what DeckHandler needs from the deck service.
type deckService interface {
	CreateDeck(ctx context.Context, input deck.CreateDeckInput) (*domain.Deck, error)
	ListDecks(ctx context.Context, input deck.ListDecksInput) ([]domain.Deck, error)
	AddCard(ctx context.Context, input deck.AddCardInput) (*domain.Card, error)
	ListCards(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)
}

// DeckHandler serves deck and card management endpoints.
type DeckHandler struct {
	svc deckService
	log *slog.Logger
}

// NewDeckHandler creates a DeckHandler.
func NewDeckHandler(svc deckService, logger *slog.Logger) *DeckHandler {
	return &DeckHandler{svc: svc, log: logger.With("handler", "deck")}
}

type createDeckRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type addCardRequest struct {
	Front   string  `json:"front"`
	Back    string  `json:"back"`
	Example *string `json:"example"`
}

type deckResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type cardResponse struct {
	ID       uuid.UUID `json:"id"`
	Front    string    `json:"front"`
	Back     string    `json:"back"`
	Example  *string   `json:"example,omitempty"`
	Position int64     `json:"position"`
}

// CreateDeck handles POST /api/decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	d, err := h.svc.CreateDeck(r.Context(), deck.CreateDeckInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDeckResponse(*d))
}

// ListDecks handles GET /api/decks?limit=&offset=.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), "limit")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	offset, err := queryInt(q.Get("offset"), "offset")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	decks, err := h.svc.ListDecks(r.Context(), deck.ListDecksInput{Limit: limit, Offset: offset})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(decks, func(d domain.Deck, _ int) deckResponse {
		return toDeckResponse(d)
	}))
}

// AddCard handles POST /api/decks/{deckID}/cards.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req addCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	card, err := h.svc.AddCard(r.Context(), deck.AddCardInput{
		DeckID:  deckID,
		Front:   req.Front,
		Back:    req.Back,
		Example: req.Example,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCardResponse(*card))
}

// ListCards handles GET /api/decks/{deckID}/cards.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	cards, err := h.svc.ListCards(r.Context(), deckID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(cards, func(c domain.Card, _ int) cardResponse {
		return toCardResponse(c)
	}))
}

func queryInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(field, "must be an integer")
	}
	return n, nil
}

func toDeckResponse(d domain.Deck) deckResponse {
	return deckResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

func toCardResponse(c domain.Card) cardResponse {
	return cardResponse{
		ID:       c.ID,
		Front:    c.Front,
		Back:     c.Back,
		Example:  c.Example,
		Position: c.Position,
	}
}
