package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONL_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "companies.jsonl")
	content := strings.Join([]string{
		`{"name":"Acme","alternative_names":[],"location":"","rating":3.5}`,
		`{not json`,
		``,
		`{"name":"   ","alternative_names":[],"location":"","rating":null}`,
		`{"name":"Beta","alternative_names":["beta-ag"],"location":"Köln","rating":null,"review_count":-1}`,
		`{"name":"Gamma","alternative_names":[],"location":"","rating":0}`,
		`{"name":"Delta","alternative_names":[],"location":"","rating":42}`,
		`{"name":"Eta","alternative_names":[],"location":"","rating":-0.5}`,
		`{"name":"Theta","alternative_names":[],"location":"","rating":1e999}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewJSONL(path, filepath.Join(dir, "jobs.jsonl"))
	got, err := s.GetCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme", got[0].Name)
	assert.Equal(t, "Gamma", got[1].Name)
	require.NotNil(t, got[1].Rating)
	assert.Equal(t, 0.0, *got[1].Rating)
}

func TestJSONL_ReadStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"job_id\":\"1\"}\n[]\n{\"job_id\":\"\"}\n"), 0o644))

	type job struct {
		JobID string `json:"job_id"`
	}
	got, stats, err := readJSONL(context.Background(), path, func(j job) error {
		if j.JobID == "" {
			return assert.AnError
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, ReadStats{Read: 3, Malformed: 2}, stats)
}

func TestJSONL_WriteIsAtomicAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONL(filepath.Join(dir, "nested", "companies.jsonl"), filepath.Join(dir, "nested", "jobs.jsonl"))
	ctx := context.Background()

	require.NoError(t, s.WriteCompanies(ctx, sampleCompanies()))
	require.NoError(t, s.WriteJobs(ctx, sampleJobs()))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}

	raw, err := os.ReadFile(filepath.Join(dir, "nested", "jobs.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"job_id":"j2"`)
}

func TestJSONL_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"job_id\":\"1\"}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewJSONL(filepath.Join(dir, "c.jsonl"), path).GetJobs(ctx)
	require.Error(t, err)
}
