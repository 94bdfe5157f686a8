package pipeline

import (
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

// ErrInconsistent means the engine's own invariants were violated, for
// example two registry records sharing a normalized key after dedupe. It is
// fatal for the run.
var ErrInconsistent = errors.New("pipeline: internal consistency violation")

// Join left-joins jobs to companies on the normalized company key. Every job
// yields exactly one row, in job order. Companies must already be
// deduplicated: a repeated key returns ErrInconsistent rather than picking one.
func Join(jobs []model.JobRecord, companies []model.CompanyRecord) ([]model.Row, error) {
	index := make(map[string]int, len(companies))
	for i, c := range companies {
		key := resolve.CompanyKey(c)
		if key == "" {
			continue
		}
		if prev, dup := index[key]; dup {
			return nil, eris.Wrapf(ErrInconsistent, "companies %q and %q share key %q",
				companies[prev].Name, c.Name, key)
		}
		index[key] = i
	}

	rows := make([]model.Row, 0, len(jobs))
	for _, j := range jobs {
		var company *model.CompanyRecord
		if key := resolve.Normalize(j.CompanyName); key != "" {
			if i, ok := index[key]; ok {
				company = &companies[i]
			}
		}
		rows = append(rows, model.NewRow(j, company))
	}
	return rows, nil
}

// MinRating keeps rows whose rating is unknown or at least m. Unrated rows
// always survive, and a zero m keeps everything.
func MinRating(rows []model.Row, m float64) []model.Row {
	if m == 0 {
		return rows
	}
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if r.Rating == nil || *r.Rating >= m {
			out = append(out, r)
		}
	}
	return out
}
