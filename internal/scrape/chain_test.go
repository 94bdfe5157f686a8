package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// mockStrategy implements Strategy for testing.
type mockStrategy struct {
	name  string
	rec   model.CompanyRecord
	err   error
	panic bool
	calls int
}

func (m *mockStrategy) Name() string { return m.name }

func (m *mockStrategy) Lookup(_ context.Context, _ string) (model.CompanyRecord, error) {
	m.calls++
	if m.panic {
		panic("unexpected markup")
	}
	return m.rec, m.err
}

func fixedChain(strategies ...Strategy) *Chain {
	c := NewChain(strategies...)
	c.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return c
}

func TestChain_FirstSuccess(t *testing.T) {
	s1 := &mockStrategy{name: "direct", rec: model.CompanyRecord{Name: "Acme", Rating: model.Float(4.1)}}
	s2 := &mockStrategy{name: "search"}

	rec, err := fixedChain(s1, s2).Update(context.Background(), "Acme GmbH")
	require.NoError(t, err)
	assert.Equal(t, 4.1, *rec.Rating)
	require.NotNil(t, rec.ScrapedAt)
	assert.Equal(t, 0, s2.calls)
}

func TestChain_FallbackOnError(t *testing.T) {
	s1 := &mockStrategy{name: "direct", err: errors.New("blocked")}
	s2 := &mockStrategy{name: "search", rec: model.CompanyRecord{Name: "Acme", Rating: model.Float(3.2)}}

	rec, err := fixedChain(s1, s2).Update(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, 3.2, *rec.Rating)
}

func TestChain_PanicMovesToNextStrategy(t *testing.T) {
	s1 := &mockStrategy{name: "direct", panic: true}
	s2 := &mockStrategy{name: "search", rec: model.CompanyRecord{Name: "Acme", Rating: model.Float(0)}}

	rec, err := fixedChain(s1, s2).Update(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotNil(t, rec.Rating)
	assert.Equal(t, 0.0, *rec.Rating)
}

func TestChain_PanicOnlyIsAnError(t *testing.T) {
	s1 := &mockStrategy{name: "direct", panic: true}

	rec, err := fixedChain(s1).Update(context.Background(), "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy direct panicked: unexpected markup")
	assert.False(t, rec.RatingUnavailable)
	assert.True(t, rec.NeedsRating())
}

func TestChain_AllNotFoundMarksUnavailable(t *testing.T) {
	s1 := &mockStrategy{name: "direct", err: ErrNotFound}
	s2 := &mockStrategy{name: "search", err: ErrNotFound}

	rec, err := fixedChain(s1, s2).Update(context.Background(), "Tiny Startup UG")
	require.NoError(t, err)
	assert.Equal(t, "Tiny Startup UG", rec.Name)
	assert.Nil(t, rec.Rating)
	assert.True(t, rec.RatingUnavailable)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), *rec.ScrapedAt)
}

func TestChain_FailureIsNotUnavailable(t *testing.T) {
	s1 := &mockStrategy{name: "direct", err: ErrNotFound}
	s2 := &mockStrategy{name: "search", err: errors.New("status 403")}

	_, err := fixedChain(s1, s2).Update(context.Background(), "Acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all strategies failed")
}

func TestChain_Empty(t *testing.T) {
	_, err := NewChain().Update(context.Background(), "Acme")
	require.Error(t, err)
}

func TestChain_CancelledContext(t *testing.T) {
	s1 := &mockStrategy{name: "direct"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fixedChain(s1).Update(ctx, "Acme")
	require.Error(t, err)
	assert.Equal(t, 0, s1.calls)
}
