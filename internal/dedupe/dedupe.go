// Package dedupe collapses company and job lists to one record per identity.
package dedupe

import (
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

// Stats reports list sizes around a dedupe pass. Skipped counts records
// dropped because they had no identity at all.
type Stats struct {
	Before  int `json:"before"`
	After   int `json:"after"`
	Skipped int `json:"skipped"`
}

// Removed returns how many records the pass dropped.
func (s Stats) Removed() int {
	return s.Before - s.After
}

// By keeps the first record for every key, in input order. Records with an
// empty key are dropped and counted as skipped.
func By[T any](items []T, key func(T) string) ([]T, Stats) {
	stats := Stats{Before: len(items)}
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))

	for _, item := range items {
		k := key(item)
		if k == "" {
			stats.Skipped++
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}

	stats.After = len(out)
	return out, stats
}

// Companies keeps the first company for each normalized name. Later
// duplicates are dropped even when their other fields differ.
func Companies(records []model.CompanyRecord) ([]model.CompanyRecord, Stats) {
	out, stats := By(records, resolve.CompanyKey)
	logStats("companies", stats)
	return out, stats
}

// Jobs keeps the first job for each job id. Ids are compared verbatim.
func Jobs(records []model.JobRecord) ([]model.JobRecord, Stats) {
	out, stats := By(records, func(j model.JobRecord) string { return j.JobID })
	logStats("jobs", stats)
	return out, stats
}

func logStats(kind string, stats Stats) {
	if stats.Skipped > 0 {
		zap.L().Warn("dedupe: skipped records without identity",
			zap.String("kind", kind),
			zap.Int("skipped", stats.Skipped),
		)
	}
	zap.L().Debug("dedupe: complete",
		zap.String("kind", kind),
		zap.Int("before", stats.Before),
		zap.Int("after", stats.After),
	)
}
