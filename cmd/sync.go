package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/importer"
	"github.com/sells-group/jobscout-cli/internal/pipeline"
)

var (
	syncJobsCSV  string
	syncFromCSV  bool
	syncJobsOnly bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Deduplicate jobs and companies and write them back to the store",
	Long:  "Loads the job set and the company registry, removes duplicates, and replaces both in the store. With --from-csv the job set is replaced by the job-board CSV export.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "sync")
		if err != nil {
			return err
		}
		defer env.Close()

		src := env.Sources()
		if syncFromCSV || syncJobsCSV != "" {
			path := syncJobsCSV
			if path == "" {
				path = cfg.Data.Path(cfg.Data.JobsCSV)
			}
			src.Jobs = importer.JobsFile{Path: path}
		}

		sinks := pipeline.SyncSinks{Jobs: env.Store, Companies: env.Store}
		if syncJobsOnly {
			sinks.Companies = nil
		}

		res, err := pipeline.New(src).Sync(ctx, sinks)
		if err != nil {
			return eris.Wrap(err, "sync")
		}
		logReports(res.Reports)
		zap.L().Info("sync complete",
			zap.String("run_id", res.RunID),
			zap.Int("companies", res.Companies),
			zap.Int("jobs", res.Jobs),
		)
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncFromCSV, "from-csv", false, "replace jobs with the configured job-board CSV export (data.jobs_csv)")
	syncCmd.Flags().StringVar(&syncJobsCSV, "jobs-csv", "", "replace jobs with this job-board CSV export")
	syncCmd.Flags().BoolVar(&syncJobsOnly, "jobs-only", false, "leave the company registry untouched")
	rootCmd.AddCommand(syncCmd)
}
