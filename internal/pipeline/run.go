package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/model"
)

// Snapshot is everything a run reads from its sources. It is taken once and
// not refreshed, so blacklist edits made during a run apply to the next one.
type Snapshot struct {
	Jobs             []model.JobRecord
	Companies        []model.CompanyRecord
	CompanyBlacklist blacklist.Set
	JobBlacklist     blacklist.Set
}

// Run is the state of one reconciliation run.
type Run struct {
	ID string

	src     Sources
	loaded  *Snapshot
	reports []StageReport
	log     *zap.Logger
}

func newRun(src Sources) *Run {
	id := uuid.New().String()
	return &Run{
		ID:  id,
		src: src,
		log: zap.L().With(zap.String("component", "pipeline"), zap.String("run_id", id)),
	}
}

// Load reads the snapshot. Calling it again after a successful load is a no-op.
func (r *Run) Load(ctx context.Context) error {
	if r.loaded != nil {
		return nil
	}
	if r.src.Jobs == nil || r.src.Companies == nil {
		return eris.New("pipeline: job and company sources are required")
	}

	start := time.Now()
	jobs, err := r.src.Jobs.GetJobs(ctx)
	if err != nil {
		return eris.Wrap(err, "pipeline: load jobs")
	}
	companies, err := r.src.Companies.GetCompanies(ctx)
	if err != nil {
		return eris.Wrap(err, "pipeline: load companies")
	}
	companyBL, err := getBlacklist(ctx, r.src.CompanyBlacklist)
	if err != nil {
		return eris.Wrap(err, "pipeline: load company blacklist")
	}
	jobBL, err := getBlacklist(ctx, r.src.JobBlacklist)
	if err != nil {
		return eris.Wrap(err, "pipeline: load job blacklist")
	}

	r.loaded = &Snapshot{
		Jobs:             jobs,
		Companies:        companies,
		CompanyBlacklist: companyBL,
		JobBlacklist:     jobBL,
	}
	r.record(StageLoad, 0, len(jobs), start)
	r.log.Debug("pipeline: snapshot loaded",
		zap.Int("companies", len(companies)),
		zap.Int("company_blacklist", companyBL.Len()),
		zap.Int("job_blacklist", jobBL.Len()),
	)
	return nil
}

// Snapshot returns the loaded snapshot, or nil before Load.
func (r *Run) Snapshot() *Snapshot { return r.loaded }

// Reports returns the stages recorded so far.
func (r *Run) Reports() []StageReport { return r.reports }

func (r *Run) record(name string, before, after int, start time.Time) {
	rep := StageReport{Stage: name, Before: before, After: after, Duration: time.Since(start)}
	r.reports = append(r.reports, rep)
	r.log.Info("pipeline: stage complete",
		zap.String("stage", name),
		zap.Int("before", before),
		zap.Int("after", after),
		zap.Duration("duration", rep.Duration),
	)
}

func getBlacklist(ctx context.Context, s blacklist.Store) (blacklist.Set, error) {
	if s == nil {
		return blacklist.NewSet(), nil
	}
	set, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if set == nil {
		set = blacklist.NewSet()
	}
	return set, nil
}
