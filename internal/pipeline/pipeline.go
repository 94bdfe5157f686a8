// Package pipeline reconciles a job set with the company registry: it loads
// both, deduplicates them, joins jobs to companies, and applies the blacklist
// and minimum-rating filters.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/dedupe"
	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/store"
)

// Stage names, in execution order.
const (
	StageLoad               = "load"
	StageDedupeCompanies    = "dedupe_companies"
	StageDedupeJobs         = "dedupe_jobs"
	StageJoin               = "join"
	StageBlacklistCompanies = "blacklist_companies"
	StageBlacklistJobs      = "blacklist_jobs"
	StageMinRating          = "min_rating"
)

// Sources are the collaborators a run reads from. A nil blacklist store is
// treated as an empty blacklist.
type Sources struct {
	Jobs             store.JobSource
	Companies        store.CompanySource
	CompanyBlacklist blacklist.Store
	JobBlacklist     blacklist.Store
}

// Options tune a single run.
type Options struct {
	// MinRating drops matched rows rated below it. Zero disables the filter.
	MinRating float64 `json:"min_rating"`
}

// Validate rejects options no run can honor.
func (o Options) Validate() error {
	if o.MinRating < 0 {
		return eris.Errorf("pipeline: min rating must not be negative, got %v", o.MinRating)
	}
	return nil
}

// StageReport records the row counts around one stage.
type StageReport struct {
	Stage    string        `json:"stage"`
	Before   int           `json:"before"`
	After    int           `json:"after"`
	Duration time.Duration `json:"duration_ns"`
}

// Result is the output of a completed run.
type Result struct {
	RunID     string                `json:"run_id"`
	Rows      []model.Row           `json:"rows"`
	Reports   []StageReport         `json:"reports"`
	Companies []model.CompanyRecord `json:"-"`
	Jobs      []model.JobRecord     `json:"-"`
}

// Report returns the report for the named stage.
func (r *Result) Report(stage string) (StageReport, bool) {
	for _, rep := range r.Reports {
		if rep.Stage == stage {
			return rep, true
		}
	}
	return StageReport{}, false
}

// Pipeline is safe for concurrent use; every Run owns its own snapshot.
type Pipeline struct {
	src Sources
}

// New creates a Pipeline reading from src.
func New(src Sources) *Pipeline {
	return &Pipeline{src: src}
}

// Run executes every stage in order and returns the consolidated rows.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	run := newRun(p.src)
	log := run.log
	log.Info("pipeline: starting run", zap.Float64("min_rating", opts.MinRating))

	if err := run.Load(ctx); err != nil {
		return nil, err
	}
	snap := run.loaded

	companies := stage(run, StageDedupeCompanies, snap.Companies, func(in []model.CompanyRecord) []model.CompanyRecord {
		out, _ := dedupe.Companies(in)
		return out
	})
	jobs := stage(run, StageDedupeJobs, snap.Jobs, func(in []model.JobRecord) []model.JobRecord {
		out, _ := dedupe.Jobs(in)
		return out
	})

	start := time.Now()
	rows, err := Join(jobs, companies)
	if err != nil {
		log.Error("pipeline: join failed", zap.Error(err))
		return nil, eris.Wrap(err, "pipeline: join")
	}
	run.record(StageJoin, len(jobs), len(rows), start)

	rows = stage(run, StageBlacklistCompanies, rows, func(in []model.Row) []model.Row {
		return blacklist.Filter(in, snap.CompanyBlacklist, rowCompany)
	})
	rows = stage(run, StageBlacklistJobs, rows, func(in []model.Row) []model.Row {
		return blacklist.Filter(in, snap.JobBlacklist, rowJobID)
	})
	rows = stage(run, StageMinRating, rows, func(in []model.Row) []model.Row {
		return MinRating(in, opts.MinRating)
	})

	log.Info("pipeline: run complete",
		zap.Int("rows", len(rows)),
		zap.Int("companies", len(companies)),
		zap.Int("jobs", len(jobs)),
	)

	return &Result{
		RunID:     run.ID,
		Rows:      rows,
		Reports:   run.reports,
		Companies: companies,
		Jobs:      jobs,
	}, nil
}

// stage applies fn to in and records the before/after counts under name.
func stage[T any](run *Run, name string, in []T, fn func([]T) []T) []T {
	start := time.Now()
	out := fn(in)
	run.record(name, len(in), len(out), start)
	return out
}

func rowCompany(r model.Row) string { return r.CompanyName }

func rowJobID(r model.Row) string { return r.JobID }
