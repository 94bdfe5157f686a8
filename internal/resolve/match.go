package resolve

import (
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// Default matching parameters used when the caller does not configure any.
const (
	DefaultTopN      = 3
	DefaultThreshold = 0.6
)

// Match is one candidate company and its similarity to the query.
type Match struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

// Outcome classifies a match result for the operator.
type Outcome string

const (
	// OutcomeConfirmed means a single exact key match; safe to merge
	// without review.
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeSuggested means candidates exist but need operator review.
	OutcomeSuggested Outcome = "suggested"
	// OutcomeUnresolved means nothing cleared the threshold.
	OutcomeUnresolved Outcome = "unresolved"
)

// Classify maps a ranked match list to its outcome. A list is confirmed when
// its first entry scores exactly 1 and no other entry does.
func Classify(matches []Match) Outcome {
	if len(matches) == 0 {
		return OutcomeUnresolved
	}
	if matches[0].Score != 1 {
		return OutcomeSuggested
	}
	for _, m := range matches[1:] {
		if m.Score == 1 {
			return OutcomeSuggested
		}
	}
	return OutcomeConfirmed
}

// FindMatches ranks candidates by similarity to query. Candidates scoring
// below threshold are dropped, the rest are ordered by descending score with
// ties kept in candidate order, and at most topN are returned. An empty
// result is not an error.
func FindMatches(query string, candidates []model.CompanyRecord, topN int, threshold float64) ([]Match, error) {
	m := Matcher{TopN: topN, Threshold: threshold}
	res, err := m.Match(query, candidates)
	if err != nil {
		return nil, err
	}
	return res.Matches, nil
}

// Matcher holds matching parameters shared across many queries.
type Matcher struct {
	TopN      int
	Threshold float64

	// UseAlternativeNames also scores each candidate's alternative names and
	// keeps the best score. Results still report the display name.
	UseAlternativeNames bool
}

// Result is the ranked outcome for one query.
type Result struct {
	Query   string  `json:"query" yaml:"query"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Matches []Match `json:"matches" yaml:"matches"`
}

// Validate checks the matcher parameters.
func (m Matcher) Validate() error {
	if m.TopN < 1 {
		return eris.Errorf("resolve: top_n must be >= 1, got %d", m.TopN)
	}
	if m.Threshold < 0 || m.Threshold > 1 {
		return eris.Errorf("resolve: threshold must be within [0,1], got %v", m.Threshold)
	}
	return nil
}

// Match ranks candidates against query.
func (m Matcher) Match(query string, candidates []model.CompanyRecord) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Query: query, Matches: []Match{}}
	qkey := Normalize(query)
	if qkey == "" {
		res.Outcome = OutcomeUnresolved
		return res, nil
	}

	for _, c := range candidates {
		ckey := Normalize(c.Name)
		if ckey == "" {
			continue
		}
		score := keyScore(qkey, ckey)
		if m.UseAlternativeNames {
			for _, alt := range c.AlternativeNames {
				score = max(score, keyScore(qkey, Normalize(alt)))
			}
		}
		if score >= m.Threshold {
			res.Matches = append(res.Matches, Match{Name: c.Name, Score: score})
		}
	}

	slices.SortStableFunc(res.Matches, func(x, y Match) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		default:
			return 0
		}
	})
	if len(res.Matches) > m.TopN {
		res.Matches = res.Matches[:m.TopN]
	}
	res.Outcome = Classify(res.Matches)
	return res, nil
}

// MatchAll runs Match for every query in order.
func (m Matcher) MatchAll(queries []string, candidates []model.CompanyRecord) ([]Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(queries))
	for _, q := range queries {
		res, err := m.Match(q, candidates)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
