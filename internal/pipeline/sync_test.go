package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/store"
)

func TestSync_WritesDeduplicatedSets(t *testing.T) {
	src := store.NewMemory(
		[]model.CompanyRecord{{Name: "Acme"}, {Name: "ACME GmbH"}, {Name: "Beta"}},
		[]model.JobRecord{{JobID: "1"}, {JobID: "2"}, {JobID: "1"}},
	)
	dst := store.NewMemory(nil, nil)

	res, err := New(Sources{Jobs: src, Companies: src}).Sync(context.Background(), SyncSinks{Jobs: dst, Companies: dst})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Companies)
	assert.Equal(t, 2, res.Jobs)

	companies, _ := dst.GetCompanies(context.Background())
	assert.Equal(t, []model.CompanyRecord{{Name: "Acme"}, {Name: "Beta"}}, companies)
	jobs, _ := dst.GetJobs(context.Background())
	assert.Equal(t, []model.JobRecord{{JobID: "1"}, {JobID: "2"}}, jobs)
}

func TestSync_FailingSinkAbortsBeforeNextWrite(t *testing.T) {
	src := store.NewMemory([]model.CompanyRecord{{Name: "Acme"}}, []model.JobRecord{{JobID: "new"}})
	companies := store.NewMemory(nil, nil)
	companies.WriteErr = errors.New("read-only file system")
	jobs := store.NewMemory(nil, []model.JobRecord{{JobID: "old"}})

	_, err := New(Sources{Jobs: src, Companies: src}).Sync(context.Background(), SyncSinks{Jobs: jobs, Companies: companies})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write companies")

	kept, _ := jobs.GetJobs(context.Background())
	assert.Equal(t, []model.JobRecord{{JobID: "old"}}, kept)
}

func TestSync_WritesCompaniesBeforeJobs(t *testing.T) {
	src := store.NewMemory([]model.CompanyRecord{{Name: "Acme"}}, []model.JobRecord{{JobID: "new"}})
	companies := store.NewMemory(nil, nil)
	jobs := store.NewMemory(nil, []model.JobRecord{{JobID: "old"}})
	jobs.WriteErr = errors.New("disk full")

	_, err := New(Sources{Jobs: src, Companies: src}).Sync(context.Background(), SyncSinks{Jobs: jobs, Companies: companies})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write jobs")

	written, _ := companies.GetCompanies(context.Background())
	assert.Equal(t, []model.CompanyRecord{{Name: "Acme"}}, written)
	kept, _ := jobs.GetJobs(context.Background())
	assert.Equal(t, []model.JobRecord{{JobID: "old"}}, kept)
}
