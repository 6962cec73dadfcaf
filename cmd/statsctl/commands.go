package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres"
	pgdeck "github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/deck"
	"github.com/heartmarshall/flashdeck-backend/internal/adapter/postgres/deckstats"
	"github.com/heartmarshall/flashdeck-backend/internal/app"
	"github.com/heartmarshall/flashdeck-backend/internal/auth"
	"github.com/heartmarshall/flashdeck-backend/internal/config"
	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// loadConfigFunc reads the configuration at path; an empty path means the
// default lookup (CONFIG_PATH, then ./config.yaml).
type loadConfigFunc func(path string) (*config.Config, error)

type configSource func() (*config.Config, error)

func newRootCmd(loadFrom loadConfigFunc) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "statsctl",
		Short:        "Inspect and maintain flashdeck deck statistics",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (default: $CONFIG_PATH or ./config.yaml)")

	load := func() (*config.Config, error) { return loadFrom(configPath) }

	root.AddCommand(
		newShowCmd(load),
		newResetCmd(load),
		newTokenCmd(load),
		newVersionCmd(),
	)
	return root
}

func newShowCmd(load configSource) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "show <deck-id>",
		Short: "Print the daily rollups and known-card count of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("deck id: %w", err)
			}
			dr, err := parseRange(from, to)
			if err != nil {
				return err
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			app.NewLogger(cfg.Log)

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			d, err := pgdeck.New(pool).GetByID(ctx, deckID)
			if err != nil {
				return fmt.Errorf("get deck: %w", err)
			}

			repo := deckstats.New(pool)
			daily, err := repo.GetDailyStats(ctx, deckID, dr)
			if err != nil {
				return err
			}
			known, err := repo.GetKnownCardIDs(ctx, deckID)
			if err != nil {
				return err
			}

			printDaily(cmd, d, daily, len(known))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD (inclusive)")
	return cmd
}

func newResetCmd(load configSource) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset <deck-id>",
		Short: "Clear the known-card set of a deck; daily history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("deck id: %w", err)
			}
			if !yes {
				return fmt.Errorf("refusing to reset deck %s without --yes", deckID)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := deckstats.New(pool).ResetDeckProgress(ctx, deckID); err != nil {
				return err
			}

			logger.Info("deck progress reset", slog.String("deck_id", deckID.String()))
			fmt.Fprintf(cmd.OutOrStdout(), "known cards of deck %s cleared\n", deckID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newTokenCmd(load configSource) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token for a user (development only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("user id: %w", err)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTokenTTL
			}

			token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, ttl).GenerateAccessToken(userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: auth.access_token_ttl)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.CurrentBuild())
		},
	}
}

func parseRange(from, to string) (domain.DateRange, error) {
	var dr domain.DateRange
	var err error
	if from != "" {
		if dr.From, err = time.Parse(time.DateOnly, from); err != nil {
			return dr, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if dr.To, err = time.Parse(time.DateOnly, to); err != nil {
			return dr, fmt.Errorf("--to: %w", err)
		}
	}
	if !dr.From.IsZero() && !dr.To.IsZero() && dr.To.Before(dr.From) {
		return dr, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return dr, nil
}

func printDaily(cmd *cobra.Command, d *domain.Deck, daily []domain.DailyStats, known int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "deck %s (%s), known cards: %d\n\n", d.ID, d.Title, known)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tSESSIONS\tVIEWED\tCORRECT\tREPEAT\tHARD\tDURATION\t")
	for _, row := range daily {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t\n",
			row.Date.Format(time.DateOnly), row.Sessions, row.Viewed, row.Correct, row.Repeat, row.Hard,
			time.Duration(row.DurationMs)*time.Millisecond)
	}
	fmt.Fprintf(tw, "total\t%d\t%d\t%d\t%d\t%d\t%s\t\n",
		lo.SumBy(daily, func(r domain.DailyStats) int { return r.Sessions }),
		lo.SumBy(daily, func(r domain.DailyStats) int { return r.Viewed }),
		lo.SumBy(daily, func(r domain.DailyStats) int { return r.Correct }),
		lo.SumBy(daily, func(r domain.DailyStats) int { return r.Repeat }),
		lo.SumBy(daily, func(r domain.DailyStats) int { return r.Hard }),
		time.Duration(lo.SumBy(daily, func(r domain.DailyStats) int64 { return r.DurationMs }))*time.Millisecond,
	)
	tw.Flush() //nolint:errcheck
}
