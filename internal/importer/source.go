package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// JobsFile is a job-board CSV export used as a pipeline job source.
type JobsFile struct {
	Path string
}

// GetJobs implements store.JobSource.
func (f JobsFile) GetJobs(ctx context.Context) ([]model.JobRecord, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: open %s", f.Path)
	}
	defer func() { _ = file.Close() }()

	jobs, stats, err := JobsCSV(ctx, file)
	if err != nil {
		return nil, err
	}
	zap.L().Info("importer: jobs read",
		zap.String("path", f.Path),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
	)
	return jobs, nil
}

// CompaniesFile is a CSV or XLSX company list used as a company source.
type CompaniesFile struct {
	Path string
}

// GetCompanies implements store.CompanySource.
func (f CompaniesFile) GetCompanies(ctx context.Context) ([]model.CompanyRecord, error) {
	var (
		companies []model.CompanyRecord
		stats     Stats
		err       error
	)
	if strings.EqualFold(filepath.Ext(f.Path), ".xlsx") {
		companies, stats, err = CompaniesXLSX(f.Path)
	} else {
		var file *os.File
		file, err = os.Open(f.Path)
		if err != nil {
			return nil, eris.Wrapf(err, "importer: open %s", f.Path)
		}
		defer func() { _ = file.Close() }()
		companies, stats, err = CompaniesCSV(ctx, file)
	}
	if err != nil {
		return nil, err
	}
	zap.L().Info("importer: companies read",
		zap.String("path", f.Path),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
	)
	return companies, nil
}
