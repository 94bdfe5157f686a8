package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/dedupe"
	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/store"
)

// SyncSinks receive the deduplicated sets. A nil sink is skipped.
type SyncSinks struct {
	Jobs      store.JobSink
	Companies store.CompanySink
}

// SyncResult reports what Sync wrote.
type SyncResult struct {
	RunID     string        `json:"run_id"`
	Reports   []StageReport `json:"reports"`
	Companies int           `json:"companies"`
	Jobs      int           `json:"jobs"`
}

// Sync loads both sets, deduplicates them and writes them back as a full
// replacement. Companies are written first; a failing write aborts before the
// next sink is touched.
func (p *Pipeline) Sync(ctx context.Context, sinks SyncSinks) (*SyncResult, error) {
	run := newRun(p.src)
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

	if sinks.Companies != nil {
		if err := sinks.Companies.WriteCompanies(ctx, companies); err != nil {
			return nil, eris.Wrap(err, "pipeline: write companies")
		}
	}
	if sinks.Jobs != nil {
		if err := sinks.Jobs.WriteJobs(ctx, jobs); err != nil {
			return nil, eris.Wrap(err, "pipeline: write jobs")
		}
	}

	run.log.Info("pipeline: sync complete",
		zap.Int("companies", len(companies)),
		zap.Int("jobs", len(jobs)),
	)
	return &SyncResult{
		RunID:     run.ID,
		Reports:   run.reports,
		Companies: len(companies),
		Jobs:      len(jobs),
	}, nil
}
