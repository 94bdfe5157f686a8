package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRecord_NeedsRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record CompanyRecord
		want   bool
	}{
		{"never scraped", CompanyRecord{Name: "Acme"}, true},
		{"rated", CompanyRecord{Name: "Acme", Rating: Float(4.1)}, false},
		{"zero rating is a rating", CompanyRecord{Name: "Acme", Rating: Float(0)}, false},
		{"scraped without rating", CompanyRecord{Name: "Acme", RatingUnavailable: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.record.NeedsRating())
		})
	}
}

func TestCompanyRecord_LookupName(t *testing.T) {
	t.Parallel()

	c := CompanyRecord{Name: "Acme", AlternativeNames: []string{"  ", "Acme", "ACME Software"}}
	assert.Equal(t, "ACME Software", c.LookupName())
	assert.True(t, c.HasAlternativeName())

	plain := CompanyRecord{Name: "Acme"}
	assert.Equal(t, "Acme", plain.LookupName())
	assert.False(t, plain.HasAlternativeName())
}

func TestCompanyRecord_AddAlternativeName(t *testing.T) {
	t.Parallel()

	c := CompanyRecord{Name: "Acme"}
	assert.True(t, c.AddAlternativeName("Acme Software GmbH"))
	assert.False(t, c.AddAlternativeName("Acme Software GmbH"))
	assert.False(t, c.AddAlternativeName("Acme"))
	assert.False(t, c.AddAlternativeName("   "))
	assert.Equal(t, []string{"Acme Software GmbH"}, c.AlternativeNames)
}

func TestCompanyRecord_JSONDefaults(t *testing.T) {
	t.Parallel()

	var c CompanyRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Acme"}`), &c))

	assert.Equal(t, "Acme", c.Name)
	assert.Nil(t, c.Rating)
	assert.Nil(t, c.ReviewCount)
	assert.Empty(t, c.AlternativeNames)
	assert.True(t, c.NeedsRating())
}

func TestCompanyRecord_JSONKeepsZeroRating(t *testing.T) {
	t.Parallel()

	var c CompanyRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Acme","rating":0}`), &c))
	require.NotNil(t, c.Rating)
	assert.InDelta(t, 0.0, *c.Rating, 0.0001)
	assert.False(t, c.NeedsRating())
}

func TestValidRating(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{0, 2.5, MaxRating} {
		assert.True(t, ValidRating(v), "%v", v)
	}
	for _, v := range []float64{-0.1, 5.01, 42, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.False(t, ValidRating(v), "%v", v)
	}
}
