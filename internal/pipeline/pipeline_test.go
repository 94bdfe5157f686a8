package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type failingBlacklist struct{ *blacklist.MemoryStore }

func (failingBlacklist) Get(context.Context) (blacklist.Set, error) {
	return nil, errors.New("disk gone")
}

func fiveJobs() []model.JobRecord {
	return []model.JobRecord{
		{JobID: "3", CompanyName: "Acme GmbH"},
		{JobID: "7", CompanyName: "Acme GmbH"},
		{JobID: "9", CompanyName: "Beta AG"},
		{JobID: "11", CompanyName: "Unknown Ltd"},
		{JobID: "12", CompanyName: "Beta AG"},
	}
}

func TestRun_DedupesAndJoins(t *testing.T) {
	st := store.NewMemory(
		[]model.CompanyRecord{
			{Name: "ACME", Rating: model.Float(4.2)},
			{Name: "Acme", Rating: model.Float(4.2)},
		},
		[]model.JobRecord{{JobID: "1", Title: "Engineer", CompanyName: "Acme GmbH"}},
	)

	res, err := New(Sources{Jobs: st, Companies: st}).Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Len(t, res.Companies, 1)
	assert.Equal(t, "ACME", res.Companies[0].Name)

	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, "1", row.JobID)
	assert.Equal(t, "ACME", row.MatchedCompany)
	require.NotNil(t, row.Rating)
	assert.Equal(t, 4.2, *row.Rating)
	assert.NotEmpty(t, res.RunID)
}

func TestRun_JobBlacklistRemovesExactlyOneRow(t *testing.T) {
	st := store.NewMemory(nil, fiveJobs())
	res, err := New(Sources{
		Jobs:         st,
		Companies:    st,
		JobBlacklist: blacklist.NewMemoryStore("7"),
	}).Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Len(t, res.Rows, 4)
	for _, r := range res.Rows {
		assert.NotEqual(t, "7", r.JobID)
	}
	rep, ok := res.Report(StageBlacklistJobs)
	require.True(t, ok)
	assert.Equal(t, 5, rep.Before)
	assert.Equal(t, 4, rep.After)
}

func TestRun_CompanyBlacklistUsesDisplayName(t *testing.T) {
	st := store.NewMemory(nil, fiveJobs())
	res, err := New(Sources{
		Jobs:             st,
		Companies:        st,
		CompanyBlacklist: blacklist.NewMemoryStore("Beta AG", "acme gmbh"),
	}).Run(context.Background(), Options{})
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		ids = append(ids, r.JobID)
	}
	// "acme gmbh" is not the exact display name, so Acme rows stay.
	assert.Equal(t, []string{"3", "7", "11"}, ids)
}

func TestRun_MinRatingKeepsUnrated(t *testing.T) {
	st := store.NewMemory(
		[]model.CompanyRecord{
			{Name: "Acme", Rating: model.Float(4.5)},
			{Name: "Beta", Rating: model.Float(2.0)},
			{Name: "Zero", Rating: model.Float(0)},
			{Name: "Gone", RatingUnavailable: true},
		},
		[]model.JobRecord{
			{JobID: "a", CompanyName: "Acme"},
			{JobID: "b", CompanyName: "Beta"},
			{JobID: "z", CompanyName: "Zero"},
			{JobID: "g", CompanyName: "Gone"},
			{JobID: "n", CompanyName: "Nobody"},
		},
	)

	res, err := New(Sources{Jobs: st, Companies: st}).Run(context.Background(), Options{MinRating: 3})
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		ids = append(ids, r.JobID)
	}
	assert.Equal(t, []string{"a", "g", "n"}, ids)
}

func TestRun_StagesInOrder(t *testing.T) {
	st := store.NewMemory(nil, fiveJobs())
	res, err := New(Sources{Jobs: st, Companies: st}).Run(context.Background(), Options{})
	require.NoError(t, err)

	var stages []string
	for _, r := range res.Reports {
		stages = append(stages, r.Stage)
	}
	assert.Equal(t, []string{
		StageLoad, StageDedupeCompanies, StageDedupeJobs, StageJoin,
		StageBlacklistCompanies, StageBlacklistJobs, StageMinRating,
	}, stages)

	// No-op filters still report unchanged counts.
	rep, _ := res.Report(StageMinRating)
	assert.Equal(t, rep.Before, rep.After)
}

func TestRun_RejectsNegativeMinRating(t *testing.T) {
	st := store.NewMemory(nil, nil)
	_, err := New(Sources{Jobs: st, Companies: st}).Run(context.Background(), Options{MinRating: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestRun_SourceFailureAborts(t *testing.T) {
	st := store.NewMemory(nil, nil)
	st.GetErr = errors.New("connection refused")

	_, err := New(Sources{Jobs: st, Companies: st}).Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load jobs")
}

func TestRun_BlacklistFailureAborts(t *testing.T) {
	st := store.NewMemory(nil, nil)
	_, err := New(Sources{Jobs: st, Companies: st, JobBlacklist: failingBlacklist{}}).Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load job blacklist")
}

func TestRun_MissingSources(t *testing.T) {
	_, err := New(Sources{}).Run(context.Background(), Options{})
	require.Error(t, err)
}

func TestRun_EachRunHasOwnSnapshot(t *testing.T) {
	st := store.NewMemory(nil, []model.JobRecord{{JobID: "1"}})
	p := New(Sources{Jobs: st, Companies: st})

	first, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.NoError(t, st.WriteJobs(context.Background(), []model.JobRecord{{JobID: "1"}, {JobID: "2"}}))
	second, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Len(t, first.Rows, 1)
	assert.Len(t, second.Rows, 2)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunLoad_OnlyOnce(t *testing.T) {
	st := store.NewMemory(nil, []model.JobRecord{{JobID: "1"}})
	run := newRun(Sources{Jobs: st, Companies: st})
	assert.Nil(t, run.Snapshot())

	require.NoError(t, run.Load(context.Background()))
	snap := run.Snapshot()
	require.NotNil(t, snap)

	st.GetErr = errors.New("should not be called")
	require.NoError(t, run.Load(context.Background()))
	assert.Same(t, snap, run.Snapshot())
	assert.Len(t, run.Reports(), 1)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, Options{}.Validate())
	assert.NoError(t, Options{MinRating: 4.5}.Validate())
	assert.Error(t, Options{MinRating: -0.1}.Validate())
}
