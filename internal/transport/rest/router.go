package rest

import (
	"net/http"

	"github.com/heartmarshall/flashdeck-backend/internal/transport/middleware"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Health   *HealthHandler
	Practice *PracticeHandler
	Decks    *DeckHandler
}

// NewRouter registers all routes. Probes are public; /api routes go
// through auth.
func NewRouter(h Handlers, auth middleware.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	api := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, auth(fn))
	}

	api("GET /api/decks", h.Decks.ListDecks)
	api("POST /api/decks", h.Decks.CreateDeck)
	api("GET /api/decks/{deckID}/cards", h.Decks.ListCards)
	api("POST /api/decks/{deckID}/cards", h.Decks.AddCard)

	api("POST /api/decks/{deckID}/sessions", h.Practice.StartSession)
	api("GET /api/sessions/{sessionID}", h.Practice.GetSession)
	api("DELETE /api/sessions/{sessionID}", h.Practice.Abandon)
	api("POST /api/sessions/{sessionID}/question", h.Practice.StartQuestion)
	api("POST /api/sessions/{sessionID}/reveal", h.Practice.Reveal)
	api("POST /api/sessions/{sessionID}/outcome", h.Practice.Outcome)
	api("POST /api/sessions/{sessionID}/finish", h.Practice.Finish)

	api("GET /api/decks/{deckID}/stats", h.Practice.DeckStats)
	api("GET /api/decks/{deckID}/known", h.Practice.KnownCards)
	api("PUT /api/decks/{deckID}/cards/{cardID}/known", h.Practice.SetCardKnown)
	api("POST /api/decks/{deckID}/progress/reset", h.Practice.ResetProgress)

	return mux
}
