// Package scrape looks up employer ratings on the rating site. Lookups go
// through an ordered Chain of strategies: the direct profile page first, then
// the site search.
package scrape

import (
	"context"
	"errors"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// ErrNotFound means a strategy reached the site but found no profile for the
// company.
var ErrNotFound = errors.New("scrape: company not found")

// RatingScraper refreshes one company's rating data.
type RatingScraper interface {
	Update(ctx context.Context, name string) (model.CompanyRecord, error)
}

// Strategy is one way of finding a company profile.
type Strategy interface {
	Name() string
	Lookup(ctx context.Context, name string) (model.CompanyRecord, error)
}
