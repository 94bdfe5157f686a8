// Package store persists the company registry and the current job set.
package store

import (
	"context"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// JobSource returns the full current job set.
type JobSource interface {
	GetJobs(ctx context.Context) ([]model.JobRecord, error)
}

// CompanySource returns the full company registry.
type CompanySource interface {
	GetCompanies(ctx context.Context) ([]model.CompanyRecord, error)
}

// JobSink replaces the persisted job set.
type JobSink interface {
	WriteJobs(ctx context.Context, jobs []model.JobRecord) error
}

// CompanySink replaces the persisted company registry.
type CompanySink interface {
	WriteCompanies(ctx context.Context, companies []model.CompanyRecord) error
}

// Store is a backend that can both read and fully replace companies and
// jobs. All variants in this package implement it.
type Store interface {
	JobSource
	CompanySource
	JobSink
	CompanySink
	Close() error
}

// ReadStats counts records seen while loading from a backend that can hold
// malformed data.
type ReadStats struct {
	Read      int `json:"read"`
	Malformed int `json:"malformed"`
}
