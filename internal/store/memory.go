package store

import (
	"context"
	"slices"
	"sync"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// Memory is an in-process Store. The error fields let tests inject
// collaborator failures.
type Memory struct {
	mu        sync.Mutex
	companies []model.CompanyRecord
	jobs      []model.JobRecord

	GetErr   error
	WriteErr error
}

// NewMemory returns a Memory seeded with copies of companies and jobs.
func NewMemory(companies []model.CompanyRecord, jobs []model.JobRecord) *Memory {
	return &Memory{companies: slices.Clone(companies), jobs: slices.Clone(jobs)}
}

func (m *Memory) GetCompanies(_ context.Context) ([]model.CompanyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return slices.Clone(m.companies), nil
}

func (m *Memory) GetJobs(_ context.Context) ([]model.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return slices.Clone(m.jobs), nil
}

func (m *Memory) WriteCompanies(_ context.Context, companies []model.CompanyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.companies = slices.Clone(companies)
	return nil
}

func (m *Memory) WriteJobs(_ context.Context, jobs []model.JobRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.jobs = slices.Clone(jobs)
	return nil
}

func (m *Memory) Close() error { return nil }
