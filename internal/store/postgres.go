package store

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/db"
	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

// PostgresStore implements Store using pgxpool. Full replacements run as
// DELETE plus COPY inside one transaction.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

var (
	companyColumns = []string{
		"position", "name", "alternative_names", "location", "rating",
		"rating_unavailable", "review_count", "source_url", "scraped_at",
	}
	jobColumns = []string{
		"position", "job_id", "title", "company_name", "url",
		"working_model", "salary", "location", "source",
	}
)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	position           INTEGER PRIMARY KEY,
	name               TEXT NOT NULL,
	alternative_names  TEXT[] NOT NULL DEFAULT '{}',
	location           TEXT NOT NULL DEFAULT '',
	rating             DOUBLE PRECISION,
	rating_unavailable BOOLEAN NOT NULL DEFAULT false,
	review_count       INTEGER,
	source_url         TEXT NOT NULL DEFAULT '',
	scraped_at         TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS jobs (
	position      INTEGER PRIMARY KEY,
	job_id        TEXT NOT NULL,
	title         TEXT NOT NULL DEFAULT '',
	company_name  TEXT NOT NULL DEFAULT '',
	url           TEXT NOT NULL DEFAULT '',
	working_model TEXT NOT NULL DEFAULT '',
	salary        INTEGER NOT NULL DEFAULT 0,
	location      TEXT NOT NULL DEFAULT '',
	source        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS blacklist (
	kind  TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (kind, value)
);

CREATE INDEX IF NOT EXISTS idx_jobs_job_id ON jobs(job_id);
CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(name);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// BlacklistStore exposes one blacklist kind as a blacklist.Store.
func (s *PostgresStore) BlacklistStore(kind blacklist.Kind) blacklist.Store {
	return kindBlacklist{kind: kind, table: s}
}

func (s *PostgresStore) GetCompanies(ctx context.Context) ([]model.CompanyRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, alternative_names, location, rating, rating_unavailable, review_count, source_url, scraped_at
		 FROM companies ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get companies")
	}
	defer rows.Close()

	out := []model.CompanyRecord{}
	for rows.Next() {
		var c model.CompanyRecord
		if err := rows.Scan(&c.Name, &c.AlternativeNames, &c.Location, &c.Rating,
			&c.RatingUnavailable, &c.ReviewCount, &c.SourceURL, &c.ScrapedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company")
		}
		if resolve.CompanyKey(c) == "" {
			zap.L().Warn("postgres: skipping company without name")
			continue
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: get companies iterate")
}

func (s *PostgresStore) GetJobs(ctx context.Context) ([]model.JobRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id, title, company_name, url, working_model, salary, location, source
		 FROM jobs ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get jobs")
	}
	defer rows.Close()

	out := []model.JobRecord{}
	for rows.Next() {
		var j model.JobRecord
		if err := rows.Scan(&j.JobID, &j.Title, &j.CompanyName, &j.URL, &j.WorkingModel, &j.Salary, &j.Location, &j.Source); err != nil {
			return nil, eris.Wrap(err, "postgres: scan job")
		}
		out = append(out, j)
	}
	return out, eris.Wrap(rows.Err(), "postgres: get jobs iterate")
}

func (s *PostgresStore) WriteCompanies(ctx context.Context, companies []model.CompanyRecord) error {
	rows := make([][]any, 0, len(companies))
	for i, c := range companies {
		alt := c.AlternativeNames
		if alt == nil {
			alt = []string{}
		}
		rows = append(rows, []any{
			i, c.Name, alt, c.Location, c.Rating,
			c.RatingUnavailable, c.ReviewCount, c.SourceURL, c.ScrapedAt,
		})
	}
	n, err := db.ReplaceTable(ctx, s.pool, "companies", companyColumns, rows)
	if err != nil {
		return eris.Wrap(err, "postgres: write companies")
	}
	zap.L().Debug("postgres: wrote companies", zap.Int64("rows", n))
	return nil
}

func (s *PostgresStore) WriteJobs(ctx context.Context, jobs []model.JobRecord) error {
	rows := make([][]any, 0, len(jobs))
	for i, j := range jobs {
		rows = append(rows, []any{
			i, j.JobID, j.Title, j.CompanyName, j.URL,
			j.WorkingModel, j.Salary, j.Location, j.Source,
		})
	}
	n, err := db.ReplaceTable(ctx, s.pool, "jobs", jobColumns, rows)
	if err != nil {
		return eris.Wrap(err, "postgres: write jobs")
	}
	zap.L().Debug("postgres: wrote jobs", zap.Int64("rows", n))
	return nil
}

func (s *PostgresStore) GetBlacklist(ctx context.Context, kind blacklist.Kind) (blacklist.Set, error) {
	rows, err := s.pool.Query(ctx, `SELECT value FROM blacklist WHERE kind = $1 ORDER BY value`, string(kind))
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get %s blacklist", kind)
	}
	defer rows.Close()

	set := blacklist.NewSet()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, eris.Wrap(err, "postgres: scan blacklist value")
		}
		set.Add(v)
	}
	return set, eris.Wrap(rows.Err(), "postgres: get blacklist iterate")
}

func (s *PostgresStore) AddBlacklist(ctx context.Context, kind blacklist.Kind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO blacklist (kind, value) VALUES ($1, $2) ON CONFLICT (kind, value) DO NOTHING`,
		string(kind), value)
	return eris.Wrapf(err, "postgres: add %s blacklist value", kind)
}

func (s *PostgresStore) RemoveBlacklist(ctx context.Context, kind blacklist.Kind, value string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM blacklist WHERE kind = $1 AND value = $2`, string(kind), strings.TrimSpace(value))
	return eris.Wrapf(err, "postgres: remove %s blacklist value", kind)
}

func (s *PostgresStore) WriteBlacklist(ctx context.Context, kind blacklist.Kind, set blacklist.Set) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin write blacklist")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM blacklist WHERE kind = $1`, string(kind)); err != nil {
		return eris.Wrapf(err, "postgres: clear %s blacklist", kind)
	}
	values := set.Sorted()
	rows := make([][]any, 0, len(values))
	for _, v := range values {
		rows = append(rows, []any{string(kind), v})
	}
	if _, err := db.CopyFrom(ctx, tx, "blacklist", []string{"kind", "value"}, rows); err != nil {
		return eris.Wrapf(err, "postgres: write %s blacklist", kind)
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit write blacklist")
}

