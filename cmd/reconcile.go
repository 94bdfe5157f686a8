package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/importer"
	"github.com/sells-group/jobscout-cli/internal/pipeline"
	"github.com/sells-group/jobscout-cli/internal/report"
)

var (
	reconcileMinRating float64
	reconcileOutput    string
	reconcileJSON      bool
	reconcileJobsCSV   string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Join jobs with company ratings and print the filtered view",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "reconcile")
		if err != nil {
			return err
		}
		defer env.Close()

		src := env.Sources()
		if reconcileJobsCSV != "" {
			src.Jobs = importer.JobsFile{Path: reconcileJobsCSV}
		}

		minRating := cfg.Filter.MinRating
		if cmd.Flags().Changed("min-rating") {
			minRating = reconcileMinRating
		}

		res, err := pipeline.New(src).Run(ctx, pipeline.Options{MinRating: minRating})
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}
		report.Sort(res.Rows)
		logReports(res.Reports)

		switch {
		case reconcileOutput != "":
			if err := report.ExportFile(reconcileOutput, res.Rows); err != nil {
				return err
			}
			zap.L().Info("reconcile: exported", zap.String("path", reconcileOutput), zap.Int("rows", len(res.Rows)))
			return nil
		case reconcileJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		default:
			return report.WriteTable(cmd.OutOrStdout(), res.Rows)
		}
	},
}

func init() {
	reconcileCmd.Flags().Float64Var(&reconcileMinRating, "min-rating", 0, "drop matched jobs rated below this (default from config)")
	reconcileCmd.Flags().StringVarP(&reconcileOutput, "output", "o", "", "write rows to a .csv or .xlsx file instead of stdout")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "print the run result as JSON")
	reconcileCmd.Flags().StringVar(&reconcileJobsCSV, "jobs-csv", "", "read jobs from a job-board CSV export instead of the store")
	rootCmd.AddCommand(reconcileCmd)
}
