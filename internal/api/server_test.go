package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/blacklist"
	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/pipeline"
	"github.com/sells-group/jobscout-cli/internal/resolve"
	"github.com/sells-group/jobscout-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fixture struct {
	srv       *httptest.Server
	mem       *store.Memory
	companyBL *blacklist.MemoryStore
	jobBL     *blacklist.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory(
		[]model.CompanyRecord{
			{Name: "Acme GmbH", Rating: model.Float(4.2)},
			{Name: "Globex", Rating: model.Float(2.0)},
			{Name: "Initech"},
		},
		[]model.JobRecord{
			{JobID: "1", Title: "Go Engineer", CompanyName: "ACME"},
			{JobID: "2", Title: "SRE", CompanyName: "Globex"},
			{JobID: "3", Title: "Backend", CompanyName: "Initech"},
			{JobID: "4", Title: "Data", CompanyName: "Unknown Ltd"},
		},
	)
	companyBL := blacklist.NewMemoryStore()
	jobBL := blacklist.NewMemoryStore("4")

	s := New(Deps{
		Pipeline: pipeline.New(pipeline.Sources{
			Jobs: mem, Companies: mem, CompanyBlacklist: companyBL, JobBlacklist: jobBL,
		}),
		Companies:  mem,
		Blacklists: map[blacklist.Kind]blacklist.Store{blacklist.KindCompany: companyBL, blacklist.KindJob: jobBL},
		Matcher:    resolve.Matcher{TopN: resolve.DefaultTopN, Threshold: resolve.DefaultThreshold},
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, mem: mem, companyBL: companyBL, jobBL: jobBL}
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestJobs(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[jobsResponse](t, resp)
	assert.NotEmpty(t, got.RunID)
	require.Equal(t, 3, got.Count)
	assert.Equal(t, "1", got.Rows[0].JobID)
	assert.Equal(t, "Acme GmbH", got.Rows[0].MatchedCompany)
	assert.Equal(t, "2", got.Rows[1].JobID)
	assert.Nil(t, got.Rows[2].Rating)
	assert.Len(t, got.Reports, 7)
}

func TestJobs_MinRating(t *testing.T) {
	f := newFixture(t)
	got := decode[jobsResponse](t, f.do(t, http.MethodGet, "/api/v1/jobs?min_rating=3", ""))
	ids := make([]string, 0, len(got.Rows))
	for _, r := range got.Rows {
		ids = append(ids, r.JobID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}

func TestJobs_BadMinRating(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/jobs?min_rating=abc", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/jobs?min_rating=-1", "").StatusCode)
}

func TestJobs_SourceFailure(t *testing.T) {
	f := newFixture(t)
	f.mem.GetErr = errors.New("disk gone")
	resp := f.do(t, http.MethodGet, "/api/v1/jobs", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, decode[errorResponse](t, resp).Error, "disk gone")
}

func TestCompanies(t *testing.T) {
	f := newFixture(t)
	all := decode[[]model.CompanyRecord](t, f.do(t, http.MethodGet, "/api/v1/companies", ""))
	assert.Len(t, all, 3)

	missing := decode[[]model.CompanyRecord](t, f.do(t, http.MethodGet, "/api/v1/companies?missing_ratings=true", ""))
	require.Len(t, missing, 1)
	assert.Equal(t, "Initech", missing[0].Name)
}

func TestMatch(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodPost, "/api/v1/match", `{"queries":["ACME","Nothing Similar"],"top_n":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[resolve.Report](t, resp)
	assert.Equal(t, 1, got.TopN)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, resolve.OutcomeConfirmed, got.Entries[0].Outcome)
	assert.Equal(t, "Acme GmbH", got.Entries[0].Matches[0].Name)
	assert.Equal(t, resolve.OutcomeUnresolved, got.Entries[1].Outcome)
}

func TestMatch_BadRequests(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/match", `{`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/match", `{"queries":[]}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/match", `{"queries":["a"],"top_n":0}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/match", `{"queries":["a"],"threshold":2}`).StatusCode)
}

func TestBlacklist(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"4"}, decode[[]string](t, f.do(t, http.MethodGet, "/api/v1/blacklist/job", "")))

	resp := f.do(t, http.MethodPut, "/api/v1/blacklist/company/Acme%20GmbH", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	set, err := f.companyBL.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, set.Contains("Acme GmbH"))

	got := decode[jobsResponse](t, f.do(t, http.MethodGet, "/api/v1/jobs", ""))
	assert.Equal(t, 3, got.Count, "blacklist keys on the job's company display name")

	resp = f.do(t, http.MethodPut, "/api/v1/blacklist/company/ACME", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	got = decode[jobsResponse](t, f.do(t, http.MethodGet, "/api/v1/jobs", ""))
	assert.Equal(t, 2, got.Count)

	resp = f.do(t, http.MethodDelete, "/api/v1/blacklist/job/4", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{}, decode[[]string](t, f.do(t, http.MethodGet, "/api/v1/blacklist/job", "")))
}

func TestBlacklist_EscapedValues(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/blacklist/company/100%25%20Club", "100% Club"},
		{"/api/v1/blacklist/company/A%2FB%20Partners", "A/B Partners"},
		{"/api/v1/blacklist/company/M%C3%BCller%20%26%20S%C3%B6hne", "Müller & Söhne"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			resp := f.do(t, http.MethodPut, tt.path, "")
			require.Equal(t, http.StatusNoContent, resp.StatusCode)
			set, err := f.companyBL.Get(context.Background())
			require.NoError(t, err)
			assert.True(t, set.Contains(tt.want))

			resp = f.do(t, http.MethodDelete, tt.path, "")
			require.Equal(t, http.StatusNoContent, resp.StatusCode)
			set, err = f.companyBL.Get(context.Background())
			require.NoError(t, err)
			assert.False(t, set.Contains(tt.want))
		})
	}
}

func TestBlacklist_UnknownKind(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/blacklist/city", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPut, "/api/v1/blacklist/city/x", "").StatusCode)
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+"/api/v1/jobs", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dash.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
