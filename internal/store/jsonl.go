package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	maxLineBytes   = 1 << 20
)

// JSONLStore keeps companies and jobs as one JSON object per line. Writes go
// to a temp file that is renamed over the target, so a failed write leaves
// the previous file intact.
type JSONLStore struct {
	companiesPath string
	jobsPath      string
}

// NewJSONL returns a store reading and writing the two given files.
func NewJSONL(companiesPath, jobsPath string) *JSONLStore {
	return &JSONLStore{companiesPath: companiesPath, jobsPath: jobsPath}
}

// GetCompanies reads the registry. Malformed lines and records without a
// usable name are skipped with a warning. A missing file is an empty registry.
func (s *JSONLStore) GetCompanies(ctx context.Context) ([]model.CompanyRecord, error) {
	out, _, err := readJSONL(ctx, s.companiesPath, func(c model.CompanyRecord) error {
		if resolve.CompanyKey(c) == "" {
			return eris.New("empty company name")
		}
		if c.Rating != nil && !model.ValidRating(*c.Rating) {
			return eris.Errorf("rating %v out of range", *c.Rating)
		}
		if c.ReviewCount != nil && *c.ReviewCount < 0 {
			return eris.Errorf("negative review_count %d", *c.ReviewCount)
		}
		return nil
	})
	return out, err
}

// GetJobs reads the persisted job set, skipping malformed lines.
func (s *JSONLStore) GetJobs(ctx context.Context) ([]model.JobRecord, error) {
	out, _, err := readJSONL(ctx, s.jobsPath, model.JobRecord.Validate)
	return out, err
}

// WriteCompanies replaces the registry file.
func (s *JSONLStore) WriteCompanies(ctx context.Context, companies []model.CompanyRecord) error {
	return writeJSONL(ctx, s.companiesPath, companies)
}

// WriteJobs replaces the job file.
func (s *JSONLStore) WriteJobs(ctx context.Context, jobs []model.JobRecord) error {
	return writeJSONL(ctx, s.jobsPath, jobs)
}

func (s *JSONLStore) Close() error { return nil }

func readJSONL[T any](ctx context.Context, path string, validate func(T) error) ([]T, ReadStats, error) {
	var stats ReadStats
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, stats, nil
	}
	if err != nil {
		return nil, stats, eris.Wrapf(err, "jsonl: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	log := zap.L().With(zap.String("file", path))
	out := []T{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		if ctx.Err() != nil {
			return nil, stats, eris.Wrap(ctx.Err(), "jsonl: context cancelled")
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		stats.Read++

		var rec T
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			stats.Malformed++
			log.Warn("jsonl: skipping malformed line", zap.Int("line", line), zap.Error(err))
			continue
		}
		if validate != nil {
			if err := validate(rec); err != nil {
				stats.Malformed++
				log.Warn("jsonl: skipping invalid record", zap.Int("line", line), zap.Error(err))
				continue
			}
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, stats, eris.Wrapf(err, "jsonl: read %s", path)
	}

	log.Debug("jsonl: loaded", zap.Int("read", stats.Read), zap.Int("malformed", stats.Malformed))
	return out, stats, nil
}

func writeJSONL[T any](ctx context.Context, path string, records []T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "jsonl: create dir %s", dir)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return eris.Wrapf(err, "jsonl: lock %s", path)
	}
	if !locked {
		return eris.Errorf("jsonl: could not lock %s", path)
	}
	defer lock.Unlock() //nolint:errcheck

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "jsonl: create temp for %s", path)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			tmp.Close() //nolint:errcheck
			return eris.Wrap(err, "jsonl: encode record")
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "jsonl: flush")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "jsonl: close temp")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "jsonl: replace %s", path)
	}

	zap.L().Debug("jsonl: wrote", zap.String("file", path), zap.Int("records", len(records)))
	return nil
}
