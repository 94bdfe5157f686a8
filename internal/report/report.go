// Package report orders the consolidated job view and writes it out as CSV,
// XLSX or a terminal table.
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// ratingNA is written for companies whose rating lookup found no score.
const ratingNA = "N/A"

// Columns is the ordered header of the job export.
var Columns = []string{
	"job_id",
	"title",
	"company",
	"matched_company",
	"rating",
	"review_count",
	"working_model",
	"salary",
	"location",
	"url",
	"company_url",
	"source",
}

// Sort orders rows by rating descending with unrated rows last, then by
// company name and job id. The sort is stable.
func Sort(rows []model.Row) {
	slices.SortStableFunc(rows, func(a, b model.Row) int {
		switch {
		case a.Rating != nil && b.Rating == nil:
			return -1
		case a.Rating == nil && b.Rating != nil:
			return 1
		case a.Rating != nil && b.Rating != nil && *a.Rating != *b.Rating:
			return cmp.Compare(*b.Rating, *a.Rating)
		}
		if c := cmp.Compare(a.CompanyName, b.CompanyName); c != 0 {
			return c
		}
		return cmp.Compare(a.JobID, b.JobID)
	})
}

// Record returns the export cells of a row in Columns order.
func Record(r model.Row) []string {
	return []string{
		r.JobID,
		r.Title,
		r.CompanyName,
		r.MatchedCompany,
		FormatRating(r.Rating, r.RatingUnavailable),
		formatInt(r.ReviewCount),
		r.WorkingModel,
		strconv.Itoa(r.Salary),
		r.Location,
		r.URL,
		r.CompanyURL,
		r.Source,
	}
}

// FormatRating renders a rating cell: blank when never looked up, N/A when
// the lookup found no score.
func FormatRating(rating *float64, unavailable bool) string {
	switch {
	case rating != nil:
		return strconv.FormatFloat(*rating, 'f', -1, 64)
	case unavailable:
		return ratingNA
	default:
		return ""
	}
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// WriteTable prints rows as an aligned table for the terminal.
func WriteTable(w io.Writer, rows []model.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RATING\tCOMPANY\tTITLE\tMODEL\tURL")
	for _, r := range rows {
		rating := FormatRating(r.Rating, r.RatingUnavailable)
		if rating == "" {
			rating = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rating, r.CompanyName, truncate(r.Title, 60), r.WorkingModel, r.URL)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
