package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	memdeckstats "github.com/heartmarshall/flashdeck-backend/internal/adapter/memory/deckstats"
	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/card"
	pgdeck "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/deck"
	pgdeckstats "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/deckstats"
	"github.com/heartmarshall/flashdeck-backend/internal/auth"
	"github.com/heartmarshall/flashdeck-backend/internal/config"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
	"github.com/heartmarshall/flashdeck-backend/internal/service/deck"
	"github.com/heartmarshall/flashdeck-backend/internal/service/practice"
	"github.com/heartmarshall/flashdeck-backend/internal/transport/middleware"
	"github.com/heartmarshall/flashdeck-backend/internal/transport/rest"
)

// statsStore is the aggregator contract shared by both backends.
type statsStore interface {
	AppendSession(ctx context.Context, rec domain.SessionRecord) error
	GetDailyStats(ctx context.Context, deckID uuid.UUID, r domain.DateRange) ([]domain.DailyStats, error)
	GetKnownCardIDs(ctx context.Context, deckID uuid.UUID) (domain.CardIDSet, error)
	SetCardKnown(ctx context.Context, deckID, cardID uuid.UUID, known bool) error
	ResetDeckProgress(ctx context.Context, deckID uuid.UUID) error
}

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("stats_backend", cfg.Stats.Backend),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	decks := pgdeck.New(pool)
	cards := card.New(pool)

	practiceSvc := practice.NewService(logger, decks, cards, newStatsStore(cfg.Stats, pool), PracticeConfig(cfg.Practice))
	deckSvc := deck.NewService(logger, decks, cards)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, rateLimitIdleTTL)

	health := rest.NewHealthHandler(pool, practiceSvc.Sessions(), BuildVersion())
	router := rest.NewRouter(rest.Handlers{
		Health:   health,
		Practice: rest.NewPracticeHandler(practiceSvc, logger),
		Decks:    rest.NewDeckHandler(deckSvc, logger),
	}, middleware.Auth(jwtManager))

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      newHandler(cfg, logger, limiter, router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		health.SetDraining()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return practiceSvc.Sessions().Run(gctx, cfg.Practice.SweepInterval)
	})

	if cfg.RateLimit.Enabled {
		g.Go(func() error {
			return limiter.Run(gctx, cfg.RateLimit.CleanupInterval)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("stopped")
	return nil
}

// PracticeConfig converts the practice config section into the domain type.
func PracticeConfig(cfg config.PracticeConfig) domain.PracticeConfig {
	return domain.PracticeConfig{
		DefaultCount: cfg.DefaultCount,
		MaxCount:     cfg.MaxCount,
		Timezone:     cfg.Timezone,
		SessionTTL:   cfg.SessionTTL,
	}
}

func newStatsStore(cfg config.StatsConfig, pool postgres.Pool) statsStore {
	if cfg.Backend == config.StatsBackendMemory {
		return memdeckstats.New()
	}
	return pgdeckstats.New(pool)
}
