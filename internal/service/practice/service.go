package practice

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type deckRepo interface {
	GetByID(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)
}

type cardRepo interface {
	ListByDeckID(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)
}

type statsStore interface {
	AppendSession(ctx context.Context, rec domain.SessionRecord) error
	GetDailyStats(ctx context.Context, deckID uuid.UUID, r domain.DateRange) ([]domain.DailyStats, error)
	GetKnownCardIDs(ctx context.Context, deckID uuid.UUID) (domain.CardIDSet, error)
	SetCardKnown(ctx context.Context, deckID, cardID uuid.UUID, known bool) error
	ResetDeckProgress(ctx context.Context, deckID uuid.UUID) error
}

type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the practice business logic: selecting cards, driving
// sessions and folding their results into deck statistics.
type Service struct {
	decks    deckRepo
	cards    cardRepo
	stats    statsStore
	sessions *Registry
	clock    clock
	log      *slog.Logger
	cfg      domain.PracticeConfig

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a new Practice service.
func NewService(
	log *slog.Logger,
	decks deckRepo,
	cards cardRepo,
	stats statsStore,
	cfg domain.PracticeConfig,
) *Service {
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	clk := realClock{}

	return &Service{
		decks:    decks,
		cards:    cards,
		stats:    stats,
		sessions: NewRegistry(cfg.SessionTTL, clk.Now),
		clock:    clk,
		log:      log.With("service", "practice"),
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Sessions exposes the live-session registry, e.g. to run its sweeper.
func (s *Service) Sessions() *Registry { return s.sessions }

func (s *Service) selectCards(all []domain.Card, known domain.CardIDSet, opts SelectOptions) []domain.Card {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return SelectCards(all, known, opts, s.rng)
}
