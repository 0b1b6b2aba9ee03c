// Command seed fills the database with sample listings, bookings and
// reviews.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iliyamo/travel-listings/internal/config"
	"github.com/iliyamo/travel-listings/internal/database"
	"github.com/iliyamo/travel-listings/internal/repository"
	"github.com/iliyamo/travel-listings/internal/seed"
	"github.com/iliyamo/travel-listings/internal/service"
	"github.com/iliyamo/travel-listings/internal/utils"
)

var (
	keep   bool
	tokens bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample listing, booking, and review data",
	Long: `seed creates five listings, three confirmed bookings and five reviews.
Existing listings, bookings and reviews are removed first unless --keep is given.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&keep, "keep", false, "Keep existing rows instead of clearing them")
	rootCmd.Flags().BoolVar(&tokens, "tokens", false, "Print a development access token for every seeded host and user (requires JWT_SECRET)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if tokens && cfg.JWTSecret == "" {
		return fmt.Errorf("--tokens needs JWT_SECRET")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	listingRepo := repository.NewListingRepo(db)
	s := &seed.Seeder{
		Listings: service.NewListingService(listingRepo, logger),
		Bookings: service.NewBookingService(repository.NewBookingRepo(db), listingRepo, nil, logger),
		Reviews:  service.NewReviewService(repository.NewReviewRepo(db), listingRepo, logger),
		Out:      cmd.OutOrStdout(),
	}
	if !keep {
		s.Clear = listingRepo.DeleteAll
	}

	res, err := s.Run(ctx)
	if err != nil {
		return err
	}
	if !tokens {
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nTokens:")
	issue := func(kind string, id uuid.UUID) error {
		tok, err := utils.NewAccessToken(cfg.JWTSecret, id, cfg.AccessTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s %s  %s\n", kind, id, tok.Token)
		return nil
	}
	for _, l := range res.Listings {
		if err := issue("host", l.HostID); err != nil {
			return err
		}
	}
	for _, u := range res.Users {
		if err := issue("user", u); err != nil {
			return err
		}
	}
	return nil
}
