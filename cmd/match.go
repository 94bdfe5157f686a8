package main

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/resolve"
)

var (
	matchFile      string
	matchReport    string
	matchTopN      int
	matchThreshold float64
)

var matchCmd = &cobra.Command{
	Use:   "match [name...]",
	Short: "Fuzzy-match company names against the registry",
	Long:  "Ranks registry companies by similarity to each name. Names come from arguments or --file (one per line). With --report the results are written as a YAML file that can be reviewed and fed to 'import aliases'.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		queries := append([]string(nil), args...)
		if matchFile != "" {
			lines, err := readLines(matchFile)
			if err != nil {
				return err
			}
			queries = append(queries, lines...)
		}
		if len(queries) == 0 {
			return eris.New("no names given (pass arguments or --file)")
		}

		env, err := initEnv(ctx, "match")
		if err != nil {
			return err
		}
		defer env.Close()

		companies, err := env.Store.GetCompanies(ctx)
		if err != nil {
			return eris.Wrap(err, "load companies")
		}

		m := matcher()
		if cmd.Flags().Changed("top-n") {
			m.TopN = matchTopN
		}
		if cmd.Flags().Changed("threshold") {
			m.Threshold = matchThreshold
		}

		results, err := m.MatchAll(queries, companies)
		if err != nil {
			return err
		}
		printMatches(cmd.OutOrStdout(), results)

		if matchReport != "" {
			rep := resolve.Report{Threshold: m.Threshold, TopN: m.TopN, Entries: results}
			if err := resolve.WriteReport(matchReport, rep); err != nil {
				return err
			}
			zap.L().Info("match report written", zap.String("path", matchReport), zap.Int("entries", len(results)))
		}
		return nil
	},
}

func printMatches(w io.Writer, results []resolve.Result) {
	counts := map[resolve.Outcome]int{}
	for _, r := range results {
		counts[r.Outcome]++
		switch r.Outcome {
		case resolve.OutcomeConfirmed:
			fmt.Fprintf(w, "✓ %s -> %s\n", r.Query, r.Matches[0].Name)
		case resolve.OutcomeSuggested:
			fmt.Fprintf(w, "? %s\n", r.Query)
			for _, m := range r.Matches {
				fmt.Fprintf(w, "    %.2f  %s\n", m.Score, m.Name)
			}
		default:
			fmt.Fprintf(w, "✗ %s: NO MATCH\n", r.Query)
		}
	}
	fmt.Fprintf(w, "\n%d confirmed, %d to review, %d unresolved\n",
		counts[resolve.OutcomeConfirmed], counts[resolve.OutcomeSuggested], counts[resolve.OutcomeUnresolved])
}

func init() {
	matchCmd.Flags().StringVarP(&matchFile, "file", "f", "", "read names from this file, one per line")
	matchCmd.Flags().StringVar(&matchReport, "report", "", "write a YAML match report to this path")
	matchCmd.Flags().IntVar(&matchTopN, "top-n", resolve.DefaultTopN, "maximum candidates per name (default from config)")
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", resolve.DefaultThreshold, "minimum similarity score (default from config)")
	rootCmd.AddCommand(matchCmd)
}
