package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Reflexive(t *testing.T) {
	for _, name := range []string{"a", "Acme", "Deutsche Bank AG", "Müller & Söhne"} {
		assert.Equal(t, 1.0, Score(name, name), name)
	}
}

func TestScore_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Score("", ""))
	assert.Equal(t, 0.0, Score("   ", ""))
	assert.Equal(t, 0.0, Score("Acme", ""))
	assert.Equal(t, 0.0, Score("", "Acme"))
}

func TestScore_SuffixOnlyDifference(t *testing.T) {
	s := Score("SAP SE", "sap")
	assert.GreaterOrEqual(t, s, 0.6)
	assert.LessOrEqual(t, s, 1.0)
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Deutsche Bank", "Commerzbank"},
		{"abcd", "bcde"},
		{"Acme Software", "Acme Soft"},
		{"Google", "Alphabet"},
		{"ABAB", "BABA"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestScore_Bounded(t *testing.T) {
	pairs := [][2]string{{"x", "y"}, {"Acme", "Acme Software"}, {"Bosch", "Robert Bosch GmbH"}}
	for _, p := range pairs {
		s := Score(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScore_DistinctBanksBelowThreshold(t *testing.T) {
	assert.Less(t, Score("Deutsche Bank AG", "Commerzbank"), DefaultThreshold)
}

func TestRatio_MatchesBlockDefinition(t *testing.T) {
	// Longest block "bcd": 2*3 / 8.
	assert.InDelta(t, 0.75, ratio([]rune("abcd"), []rune("bcde")), 1e-9)
	assert.Equal(t, 0.0, ratio([]rune("abc"), []rune("xyz")))
	// Lengths are counted in runes, not bytes.
	assert.InDelta(t, 8.0/9.0, ratio([]rune("müll"), []rune("müller")[:5]), 1e-9)
	assert.Equal(t, 1.0, ratio([]rune("müller"), []rune("müller")))
}

func TestMatchingRunes_RecursesBothSides(t *testing.T) {
	// "qabxcd" vs "abycdf": blocks "ab" and "cd".
	assert.Equal(t, 4, matchingRunes([]rune("qabxcd"), []rune("abycdf")))
}
