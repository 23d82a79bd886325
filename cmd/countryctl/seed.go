package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bihua-university/countries/internal/base"
	"github.com/bihua-university/countries/internal/country"
	"github.com/bihua-university/countries/internal/store"
)

var seedParallel int

// openCountryStore is replaced in tests.
var openCountryStore = func(dsn string, logger *slog.Logger) (country.Store, io.Closer, error) {
	db, err := store.Open(dsn, logger)
	if err != nil {
		return nil, nil, err
	}
	return db.Countries(), db, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed NAME...",
	Short: "Fetch countries from upstream into the database",
	Long: `Looks every name up in the REST Countries API and stores the exact match in
the database configured by db.dsn. Names without an exact match are reported
and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVarP(&seedParallel, "parallel", "p", 4, "names fetched at the same time")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := base.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.DSN == "" {
		return errors.New("db.dsn is not configured, nothing to seed into")
	}
	logger := base.NewLogger(cfg.LogLevel, "text", cmd.ErrOrStderr())

	countries, closer, err := openCountryStore(cfg.DSN, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	gateway := country.NewGateway(countries, country.NewUpstream(cfg.UpstreamBase, cfg.UpstreamTimeout), country.Options{
		Logger: logger,
	})

	ctx := cmd.Context()
	results := make([]country.SeedResult, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(seedParallel, 1))
	for i, name := range args {
		g.Go(func() error {
			results[i] = gateway.Seed(gctx, name)[0]
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			cmd.Printf("skip  %s: %v\n", r.Name, r.Err)
			continue
		}
		cmd.Printf("saved %s\n", r.Name)
	}
	if failed == len(results) {
		return fmt.Errorf("none of %d countries could be seeded", failed)
	}
	return nil
}
