package dedupe

import (
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

// MergeStats reports the outcome of MergeCompanies.
type MergeStats struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// MergeCompanies appends every incoming company whose key is not already
// present in existing. Existing records are never modified, and incoming
// duplicates of each other keep their first occurrence.
func MergeCompanies(existing, incoming []model.CompanyRecord) ([]model.CompanyRecord, MergeStats) {
	var stats MergeStats
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]model.CompanyRecord, 0, len(existing)+len(incoming))

	for _, c := range existing {
		seen[resolve.CompanyKey(c)] = struct{}{}
		merged = append(merged, c)
	}

	for _, c := range incoming {
		key := resolve.CompanyKey(c)
		if key == "" {
			stats.Skipped++
			continue
		}
		if _, dup := seen[key]; dup {
			stats.Skipped++
			zap.L().Debug("merge: skipped duplicate company", zap.String("name", c.Name))
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, c)
		stats.Added++
	}

	return merged, stats
}
