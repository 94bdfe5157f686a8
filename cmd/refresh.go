package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/refresh"
	"github.com/sells-group/jobscout-cli/internal/scrape"
)

var (
	refreshLimit       int
	refreshConcurrency int
	refreshOnlyAlt     bool
	refreshDryRun      bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Look up ratings for companies that have never been rated",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("limit") {
			cfg.Refresh.Limit = refreshLimit
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Refresh.Concurrency = refreshConcurrency
		}
		if cmd.Flags().Changed("only-alternative-names") {
			cfg.Refresh.OnlyAlternativeNames = refreshOnlyAlt
		}

		env, err := initEnv(ctx, "refresh")
		if err != nil {
			return err
		}
		defer env.Close()

		companies, err := env.Store.GetCompanies(ctx)
		if err != nil {
			return eris.Wrap(err, "load companies")
		}

		targets := refresh.Targets(companies, refresh.Filter{
			OnlyAlternativeNames: cfg.Refresh.OnlyAlternativeNames,
			Limit:                cfg.Refresh.Limit,
		})
		zap.L().Info("refresh targets selected", zap.Int("companies", len(companies)), zap.Int("targets", len(targets)))
		if len(targets) == 0 {
			return nil
		}
		if refreshDryRun {
			for _, t := range targets {
				zap.L().Info("would refresh", zap.String("company", t.Name), zap.String("lookup", t.LookupName()))
			}
			return nil
		}

		r := &refresh.Refresher{
			Scraper:     scrape.NewDefaultChain(ratingClient(), matcher()),
			Concurrency: cfg.Refresh.Concurrency,
		}
		refreshed, stats := r.Run(ctx, targets)
		if len(refreshed) == 0 {
			zap.L().Warn("refresh: no company updated", zap.Int("failed", stats.Failed))
			return nil
		}

		if err := env.Store.WriteCompanies(ctx, refresh.Merge(companies, refreshed)); err != nil {
			return eris.Wrap(err, "write companies")
		}
		zap.L().Info("refresh complete",
			zap.Int("refreshed", stats.Refreshed),
			zap.Int("unavailable", stats.Unavailable),
			zap.Int("failed", stats.Failed),
		)
		return nil
	},
}

func init() {
	refreshCmd.Flags().IntVar(&refreshLimit, "limit", 0, "maximum companies to look up (default from config)")
	refreshCmd.Flags().IntVar(&refreshConcurrency, "concurrency", 0, "parallel lookups (default from config)")
	refreshCmd.Flags().BoolVar(&refreshOnlyAlt, "only-alternative-names", false, "only companies with a recorded alternative name")
	refreshCmd.Flags().BoolVar(&refreshDryRun, "dry-run", false, "list targets without scraping")
	rootCmd.AddCommand(refreshCmd)
}
