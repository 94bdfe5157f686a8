package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

// SQLiteStore implements Store using modernc.org/sqlite. Row order is kept
// in a position column so reads return records in the order they were written.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	position           INTEGER PRIMARY KEY,
	name               TEXT NOT NULL,
	alternative_names  TEXT NOT NULL DEFAULT '[]',
	location           TEXT NOT NULL DEFAULT '',
	rating             REAL,
	rating_unavailable INTEGER NOT NULL DEFAULT 0,
	review_count       INTEGER,
	source_url         TEXT NOT NULL DEFAULT '',
	scraped_at         TEXT
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BlacklistStore exposes one blacklist kind as a blacklist.Store.
func (s *SQLiteStore) BlacklistStore(kind blacklist.Kind) blacklist.Store {
	return kindBlacklist{kind: kind, table: s}
}

func (s *SQLiteStore) GetCompanies(ctx context.Context) ([]model.CompanyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, alternative_names, location, rating, rating_unavailable, review_count, source_url, scraped_at
		 FROM companies ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get companies")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.CompanyRecord{}
	for rows.Next() {
		var (
			c         model.CompanyRecord
			altJSON   string
			rating    sql.NullFloat64
			reviews   sql.NullInt64
			scrapedAt sql.NullString
		)
		if err := rows.Scan(&c.Name, &altJSON, &c.Location, &rating, &c.RatingUnavailable, &reviews, &c.SourceURL, &scrapedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company")
		}
		if err := json.Unmarshal([]byte(altJSON), &c.AlternativeNames); err != nil {
			zap.L().Warn("sqlite: bad alternative_names", zap.String("company", c.Name), zap.Error(err))
		}
		if rating.Valid {
			c.Rating = model.Float(rating.Float64)
		}
		if reviews.Valid {
			c.ReviewCount = model.Int(int(reviews.Int64))
		}
		if scrapedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, scrapedAt.String)
			if err != nil {
				return nil, eris.Wrapf(err, "sqlite: parse scraped_at for %s", c.Name)
			}
			c.ScrapedAt = &t
		}
		if resolve.CompanyKey(c) == "" {
			continue
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: get companies iterate")
}

func (s *SQLiteStore) GetJobs(ctx context.Context) ([]model.JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, title, company_name, url, working_model, salary, location, source
		 FROM jobs ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get jobs")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.JobRecord{}
	for rows.Next() {
		var j model.JobRecord
		if err := rows.Scan(&j.JobID, &j.Title, &j.CompanyName, &j.URL, &j.WorkingModel, &j.Salary, &j.Location, &j.Source); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan job")
		}
		out = append(out, j)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: get jobs iterate")
}

func (s *SQLiteStore) WriteCompanies(ctx context.Context, companies []model.CompanyRecord) error {
	return s.replace(ctx, "companies", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO companies (position, name, alternative_names, location, rating, rating_unavailable, review_count, source_url, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return eris.Wrap(err, "sqlite: prepare company insert")
		}
		defer stmt.Close() //nolint:errcheck

		for i, c := range companies {
			alt := c.AlternativeNames
			if alt == nil {
				alt = []string{}
			}
			altJSON, err := json.Marshal(alt)
			if err != nil {
				return eris.Wrap(err, "sqlite: marshal alternative_names")
			}
			var scrapedAt any
			if c.ScrapedAt != nil {
				scrapedAt = c.ScrapedAt.UTC().Format(time.RFC3339Nano)
			}
			if _, err := stmt.ExecContext(ctx, i, c.Name, string(altJSON), c.Location,
				nullable(c.Rating), c.RatingUnavailable, nullable(c.ReviewCount), c.SourceURL, scrapedAt); err != nil {
				return eris.Wrapf(err, "sqlite: insert company %s", c.Name)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) WriteJobs(ctx context.Context, jobs []model.JobRecord) error {
	return s.replace(ctx, "jobs", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO jobs (position, job_id, title, company_name, url, working_model, salary, location, source)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return eris.Wrap(err, "sqlite: prepare job insert")
		}
		defer stmt.Close() //nolint:errcheck

		for i, j := range jobs {
			if _, err := stmt.ExecContext(ctx, i, j.JobID, j.Title, j.CompanyName, j.URL, j.WorkingModel, j.Salary, j.Location, j.Source); err != nil {
				return eris.Wrapf(err, "sqlite: insert job %s", j.JobID)
			}
		}
		return nil
	})
}

// replace clears table and refills it inside one transaction.
func (s *SQLiteStore) replace(ctx context.Context, table string, fill func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrapf(err, "sqlite: begin replace %s", table)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return eris.Wrapf(err, "sqlite: clear %s", table)
	}
	if err := fill(tx); err != nil {
		return err
	}
	return eris.Wrapf(tx.Commit(), "sqlite: commit replace %s", table)
}

func (s *SQLiteStore) GetBlacklist(ctx context.Context, kind blacklist.Kind) (blacklist.Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM blacklist WHERE kind = ? ORDER BY value`, string(kind))
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s blacklist", kind)
	}
	defer rows.Close() //nolint:errcheck

	set := blacklist.NewSet()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan blacklist value")
		}
		set.Add(v)
	}
	return set, eris.Wrap(rows.Err(), "sqlite: get blacklist iterate")
}

func (s *SQLiteStore) AddBlacklist(ctx context.Context, kind blacklist.Kind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO blacklist (kind, value) VALUES (?, ?)`, string(kind), value)
	return eris.Wrapf(err, "sqlite: add %s blacklist value", kind)
}

func (s *SQLiteStore) RemoveBlacklist(ctx context.Context, kind blacklist.Kind, value string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blacklist WHERE kind = ? AND value = ?`, string(kind), strings.TrimSpace(value))
	return eris.Wrapf(err, "sqlite: remove %s blacklist value", kind)
}

func (s *SQLiteStore) WriteBlacklist(ctx context.Context, kind blacklist.Kind, set blacklist.Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin write blacklist")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blacklist WHERE kind = ?`, string(kind)); err != nil {
		return eris.Wrapf(err, "sqlite: clear %s blacklist", kind)
	}
	for _, v := range set.Sorted() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO blacklist (kind, value) VALUES (?, ?)`, string(kind), v); err != nil {
			return eris.Wrapf(err, "sqlite: insert %s blacklist value", kind)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit write blacklist")
}

// nullable turns a nil pointer into an untyped nil so drivers store NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
