package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/pipeline"
	"github.com/sells-group/jobscout-cli/internal/report"
)

var (
	exportOutput         string
	exportMissingRatings bool
	exportMinRating      float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the sorted job view, or the companies missing ratings, to CSV or XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "export")
		if err != nil {
			return err
		}
		defer env.Close()

		if exportMissingRatings {
			companies, err := env.Store.GetCompanies(ctx)
			if err != nil {
				return eris.Wrap(err, "load companies")
			}
			missing := report.MissingRatings(companies)
			if err := report.ExportCompaniesFile(exportOutput, missing); err != nil {
				return err
			}
			zap.L().Info("export complete", zap.String("path", exportOutput), zap.Int("companies", len(missing)))
			return nil
		}

		minRating := cfg.Filter.MinRating
		if cmd.Flags().Changed("min-rating") {
			minRating = exportMinRating
		}
		res, err := pipeline.New(env.Sources()).Run(ctx, pipeline.Options{MinRating: minRating})
		if err != nil {
			return eris.Wrap(err, "export")
		}
		report.Sort(res.Rows)
		if err := report.ExportFile(exportOutput, res.Rows); err != nil {
			return err
		}
		zap.L().Info("export complete", zap.String("path", exportOutput), zap.Int("rows", len(res.Rows)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "jobs.csv", "output path; .xlsx writes a workbook, anything else CSV")
	exportCmd.Flags().BoolVar(&exportMissingRatings, "missing-ratings", false, "export companies that were never rated instead of jobs")
	exportCmd.Flags().Float64Var(&exportMinRating, "min-rating", 0, "drop matched jobs rated below this (default from config)")
	rootCmd.AddCommand(exportCmd)
}
