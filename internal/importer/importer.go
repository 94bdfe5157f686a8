// Package importer reads job-board exports and company lists into registry
// records and merges them into existing data.
package importer

import (
	"context"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/fetcher"
	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

// Stats counts the rows seen by an import.
type Stats struct {
	Rows     int `json:"rows"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Working models derived from the job board's is_remote flag.
const (
	WorkingModelRemote = "remote"
	WorkingModelOnsite = "onsite"
)

// JobsCSV reads a job-board CSV export. The direct employer URL is preferred
// over the board URL when both are present. Rows without an id are skipped.
func JobsCSV(ctx context.Context, r io.Reader) ([]model.JobRecord, Stats, error) {
	header, rows, err := fetcher.ReadCSV(ctx, r, fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true})
	if err != nil {
		return nil, Stats{}, eris.Wrap(err, "importer: read jobs csv")
	}
	idx := fetcher.HeaderIndex(header)
	if err := requireColumns(idx, "id", "company"); err != nil {
		return nil, Stats{}, err
	}

	var (
		jobs  []model.JobRecord
		stats Stats
	)
	for i, row := range rows {
		stats.Rows++
		job := model.JobRecord{
			JobID:        fetcher.Field(row, idx, "id"),
			Title:        fetcher.Field(row, idx, "title"),
			CompanyName:  fetcher.Field(row, idx, "company"),
			URL:          firstNonEmpty(fetcher.Field(row, idx, "job_url_direct"), fetcher.Field(row, idx, "job_url")),
			WorkingModel: workingModel(fetcher.Field(row, idx, "is_remote")),
			Location:     fetcher.Field(row, idx, "location"),
			Source:       fetcher.Field(row, idx, "site"),
		}
		if err := job.Validate(); err != nil {
			stats.Skipped++
			zap.L().Warn("importer: skipping job row", zap.Int("line", i+2), zap.Error(err))
			continue
		}
		jobs = append(jobs, job)
	}
	stats.Imported = len(jobs)
	return jobs, stats, nil
}

// CompaniesCSV reads a company list with COMPANY_NAME, RATING and URL
// columns. Column names are matched case-insensitively.
func CompaniesCSV(ctx context.Context, r io.Reader) ([]model.CompanyRecord, Stats, error) {
	header, rows, err := fetcher.ReadCSV(ctx, r, fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true})
	if err != nil {
		return nil, Stats{}, eris.Wrap(err, "importer: read companies csv")
	}
	return companies(header, rows)
}

// CompaniesXLSX reads a company list from the first sheet of an XLSX file.
// The first non-blank row is the header.
func CompaniesXLSX(path string) ([]model.CompanyRecord, Stats, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, Stats{}, eris.Wrap(err, "importer: read companies xlsx")
	}
	if len(rows) == 0 {
		return nil, Stats{}, eris.New("importer: companies xlsx is empty")
	}
	return companies(rows[0], rows[1:])
}

func companies(header []string, rows [][]string) ([]model.CompanyRecord, Stats, error) {
	idx := fetcher.HeaderIndex(header)
	if err := requireColumns(idx, "company_name"); err != nil {
		return nil, Stats{}, err
	}

	var (
		out   []model.CompanyRecord
		stats Stats
	)
	for i, row := range rows {
		stats.Rows++
		c := model.CompanyRecord{
			Name:      fetcher.Field(row, idx, "company_name"),
			Location:  fetcher.Field(row, idx, "location"),
			Rating:    ParseRating(fetcher.Field(row, idx, "rating")),
			SourceURL: fetcher.Field(row, idx, "url"),
		}
		if resolve.CompanyKey(c) == "" {
			stats.Skipped++
			zap.L().Warn("importer: skipping company row without name", zap.Int("line", i+2))
			continue
		}
		out = append(out, c)
	}
	stats.Imported = len(out)
	return out, stats, nil
}

// ParseRating parses a rating cell. Blank, "N/A", unparsable and
// off-scale values (NaN, infinities, negatives, above model.MaxRating)
// return nil. A decimal comma is accepted.
func ParseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || !model.ValidRating(v) {
		return nil
	}
	return &v
}

// ApplyAliases records each confirmed query as an alternative name of the
// company it was matched to. confirmed maps query -> company display name.
// It returns the updated companies, the number of aliases added and the
// company names that were not found in the registry.
func ApplyAliases(companies []model.CompanyRecord, confirmed map[string]string) ([]model.CompanyRecord, int, []string) {
	out := make([]model.CompanyRecord, len(companies))
	byName := make(map[string]int, len(companies))
	for i, c := range companies {
		c.AlternativeNames = append([]string(nil), c.AlternativeNames...)
		out[i] = c
		if _, ok := byName[c.Name]; !ok {
			byName[c.Name] = i
		}
	}

	queries := make([]string, 0, len(confirmed))
	for q := range confirmed {
		queries = append(queries, q)
	}
	slices.Sort(queries)

	added := 0
	var missing []string
	for _, q := range queries {
		name := confirmed[q]
		i, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if out[i].AddAlternativeName(q) {
			added++
		}
	}
	return out, added, missing
}

func requireColumns(idx map[string]int, cols ...string) error {
	for _, c := range cols {
		if _, ok := idx[c]; !ok {
			return eris.Errorf("importer: missing required column %q", c)
		}
	}
	return nil
}

func workingModel(isRemote string) string {
	switch strings.ToLower(isRemote) {
	case "true", "1", "yes":
		return WorkingModelRemote
	case "false", "0", "no":
		return WorkingModelOnsite
	default:
		return ""
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
