package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// Chain tries strategies in order and returns the first profile found.
type Chain struct {
	strategies []Strategy
	now        func() time.Time
}

var _ RatingScraper = (*Chain)(nil)

// NewChain creates a Chain. Strategies are tried in the given order.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, now: time.Now}
}

// Update looks name up with each strategy until one succeeds. A strategy that
// errors or panics is logged and skipped. When every strategy reports
// ErrNotFound the result is a record marked RatingUnavailable; when at least
// one failed for another reason the last such error is returned so the
// company stays eligible for a later refresh.
func (c *Chain) Update(ctx context.Context, name string) (model.CompanyRecord, error) {
	if len(c.strategies) == 0 {
		return model.CompanyRecord{}, eris.New("scrape: no strategies configured")
	}

	var lastErr error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return model.CompanyRecord{}, eris.Wrap(err, "scrape: update cancelled")
		}

		rec, err := c.try(ctx, s, name)
		if err == nil {
			if rec.ScrapedAt == nil {
				ts := c.now().UTC()
				rec.ScrapedAt = &ts
			}
			zap.L().Debug("scrape: strategy succeeded",
				zap.String("strategy", s.Name()),
				zap.String("company", name),
			)
			return rec, nil
		}

		zap.L().Debug("scrape: strategy failed, trying next",
			zap.String("strategy", s.Name()),
			zap.String("company", name),
			zap.Error(err),
		)
		if !errors.Is(err, ErrNotFound) {
			lastErr = err
		}
	}

	if lastErr != nil {
		return model.CompanyRecord{}, eris.Wrapf(lastErr, "scrape: all strategies failed for %q", name)
	}

	ts := c.now().UTC()
	return model.CompanyRecord{Name: name, RatingUnavailable: true, ScrapedAt: &ts}, nil
}

func (c *Chain) try(ctx context.Context, s Strategy, name string) (rec model.CompanyRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("scrape: strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Lookup(ctx, name)
}
