package scrape

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
)

// DirectStrategy guesses profile slugs from the company name and fetches
// each candidate page.
type DirectStrategy struct {
	Client *Client
}

func (DirectStrategy) Name() string { return "direct" }

func (s DirectStrategy) Lookup(ctx context.Context, name string) (model.CompanyRecord, error) {
	slugs := Slugs(name)
	if len(slugs) == 0 {
		return model.CompanyRecord{}, ErrNotFound
	}

	for _, slug := range slugs {
		rec, err := s.Client.Profile(ctx, s.Client.ProfileURL(slug))
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return model.CompanyRecord{}, err
		}
		zap.L().Debug("scrape: no profile at slug", zap.String("slug", slug))
	}
	return model.CompanyRecord{}, ErrNotFound
}

// SearchStrategy runs a site search and picks the best-matching profile.
type SearchStrategy struct {
	Client  *Client
	Matcher resolve.Matcher
}

func (SearchStrategy) Name() string { return "search" }

func (s SearchStrategy) Lookup(ctx context.Context, name string) (model.CompanyRecord, error) {
	listing, err := s.Client.Search(ctx, name, 1, nil)
	if err != nil {
		return model.CompanyRecord{}, err
	}
	if len(listing.Profiles) == 0 {
		return model.CompanyRecord{}, ErrNotFound
	}

	candidates := make([]model.CompanyRecord, len(listing.Profiles))
	for i, p := range listing.Profiles {
		candidates[i] = model.CompanyRecord{Name: p.Name}
	}
	m := s.Matcher
	m.TopN = 1
	res, err := m.Match(name, candidates)
	if err != nil {
		return model.CompanyRecord{}, eris.Wrap(err, "scrape: match search results")
	}
	if len(res.Matches) == 0 {
		return model.CompanyRecord{}, ErrNotFound
	}

	best := res.Matches[0]
	for _, p := range listing.Profiles {
		if p.Name != best.Name {
			continue
		}
		zap.L().Debug("scrape: search picked profile",
			zap.String("company", name),
			zap.String("profile", p.Name),
			zap.Float64("score", best.Score),
		)
		if p.Score != nil || p.Slug == "" {
			return s.Client.record(p, ""), nil
		}
		return s.Client.Profile(ctx, s.Client.profileURLFor(p))
	}
	return model.CompanyRecord{}, ErrNotFound
}

// NewDefaultChain wires the direct and search strategies over one client.
func NewDefaultChain(c *Client, m resolve.Matcher) *Chain {
	return NewChain(DirectStrategy{Client: c}, SearchStrategy{Client: c, Matcher: m})
}
