package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/dedupe"
	"github.com/sells-group/jobscout-cli/internal/importer"
	"github.com/sells-group/jobscout-cli/internal/resolve"
	"github.com/sells-group/jobscout-cli/internal/scrape"
	"github.com/sells-group/jobscout-cli/internal/store"
)

var (
	importJobsPath      string
	importCompaniesPath string
	importListingQuery  string
	importListingPages  int
	importAliasReport   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import jobs, companies or confirmed aliases into the store",
}

var importJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Add postings from a job-board CSV export",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		path := importJobsPath
		if path == "" {
			path = cfg.Data.Path(cfg.Data.JobsCSV)
		}
		incoming, err := importer.JobsFile{Path: path}.GetJobs(ctx)
		if err != nil {
			return err
		}
		existing, err := env.Store.GetJobs(ctx)
		if err != nil {
			return eris.Wrap(err, "load jobs")
		}

		merged, stats := dedupe.Jobs(append(existing, incoming...))
		if err := env.Store.WriteJobs(ctx, merged); err != nil {
			return eris.Wrap(err, "write jobs")
		}
		zap.L().Info("import jobs complete",
			zap.String("csv", path),
			zap.Int("existing", len(existing)),
			zap.Int("added", len(merged)-len(existing)),
			zap.Int("duplicates", stats.Removed()),
		)
		return nil
	},
}

var importCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Merge a company list (CSV, XLSX or a rating site listing) into the registry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var src store.CompanySource
		switch {
		case importCompaniesPath != "" && importListingQuery != "":
			return eris.New("use either --file or --listing, not both")
		case importCompaniesPath != "":
			src = importer.CompaniesFile{Path: importCompaniesPath}
		case importListingQuery != "":
			src = &scrape.ListingSource{Client: ratingClient(), Query: importListingQuery, MaxPages: importListingPages}
		default:
			return eris.New("--file or --listing is required")
		}

		env, err := initEnv(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		incoming, err := src.GetCompanies(ctx)
		if err != nil {
			return eris.Wrap(err, "read companies")
		}
		existing, err := env.Store.GetCompanies(ctx)
		if err != nil {
			return eris.Wrap(err, "load companies")
		}

		merged, stats := dedupe.MergeCompanies(existing, incoming)
		if err := env.Store.WriteCompanies(ctx, merged); err != nil {
			return eris.Wrap(err, "write companies")
		}
		zap.L().Info("import companies complete",
			zap.Int("existing", len(existing)),
			zap.Int("incoming", len(incoming)),
			zap.Int("added", stats.Added),
			zap.Int("skipped", stats.Skipped),
		)
		return nil
	},
}

var importAliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Record confirmed entries of a match report as alternative names",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rep, err := resolve.LoadReport(importAliasReport)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		companies, err := env.Store.GetCompanies(ctx)
		if err != nil {
			return eris.Wrap(err, "load companies")
		}

		updated, added, missing := importer.ApplyAliases(companies, rep.Confirmed())
		for _, name := range missing {
			zap.L().Warn("import aliases: company not in registry", zap.String("company", name))
		}
		if added == 0 {
			zap.L().Info("import aliases: nothing to add")
			return nil
		}
		if err := env.Store.WriteCompanies(ctx, updated); err != nil {
			return eris.Wrap(err, "write companies")
		}
		zap.L().Info("import aliases complete", zap.Int("added", added), zap.Int("missing", len(missing)))
		return nil
	},
}

func init() {
	importJobsCmd.Flags().StringVar(&importJobsPath, "csv", "", "job-board CSV export (default data.jobs_csv)")

	importCompaniesCmd.Flags().StringVarP(&importCompaniesPath, "file", "f", "", "company list with COMPANY_NAME, RATING, URL columns (.csv or .xlsx)")
	importCompaniesCmd.Flags().StringVar(&importListingQuery, "listing", "", "crawl the rating site's search listing for this query")
	importCompaniesCmd.Flags().IntVar(&importListingPages, "pages", 0, "maximum listing pages to crawl (0 follows pagination to the end)")

	importAliasesCmd.Flags().StringVar(&importAliasReport, "report", "", "match report written by 'match --report' (required)")
	_ = importAliasesCmd.MarkFlagRequired("report")

	importCmd.AddCommand(importJobsCmd, importCompaniesCmd, importAliasesCmd)
	rootCmd.AddCommand(importCmd)
}
