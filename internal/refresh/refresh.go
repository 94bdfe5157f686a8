// Package refresh re-scrapes ratings for registry companies that have never
// been looked up and merges the results back into the registry.
package refresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/jobscout-cli/internal/model"
	"github.com/sells-group/jobscout-cli/internal/resolve"
	"github.com/sells-group/jobscout-cli/internal/scrape"
)

// DefaultConcurrency is used when Refresher.Concurrency is not positive.
const DefaultConcurrency = 2

// Filter narrows the refresh targets.
type Filter struct {
	// OnlyAlternativeNames keeps only companies with a recorded alternative
	// name, i.e. the ones an operator has already mapped by hand.
	OnlyAlternativeNames bool
	// Limit caps the number of targets; 0 means no cap.
	Limit int
}

// Targets returns the companies whose rating was never looked up, in
// registry order.
func Targets(companies []model.CompanyRecord, f Filter) []model.CompanyRecord {
	var out []model.CompanyRecord
	for _, c := range companies {
		if !c.NeedsRating() {
			continue
		}
		if f.OnlyAlternativeNames && !c.HasAlternativeName() {
			continue
		}
		if resolve.CompanyKey(c) == "" {
			continue
		}
		out = append(out, c)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Stats summarizes a refresh batch.
type Stats struct {
	Attempted   int           `json:"attempted"`
	Refreshed   int           `json:"refreshed"`
	Unavailable int           `json:"unavailable"`
	Failed      int           `json:"failed"`
	Duration    time.Duration `json:"duration"`
}

// Refresher runs the rating scraper over a batch of targets.
type Refresher struct {
	Scraper     scrape.RatingScraper
	Concurrency int
}

// Run scrapes every target and returns the results keyed by the target's
// company key. A failing lookup is logged and counted; it never stops the
// batch. Targets not started before ctx is cancelled count as failed.
func (r *Refresher) Run(ctx context.Context, targets []model.CompanyRecord) (map[string]model.CompanyRecord, Stats) {
	start := time.Now()
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	log := zap.L().With(zap.String("component", "refresh"), zap.Int("targets", len(targets)))
	log.Info("refresh: starting", zap.Int("concurrency", limit))

	var (
		mu    sync.Mutex
		out   = make(map[string]model.CompanyRecord, len(targets))
		stats Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, target := range targets {
		key := resolve.CompanyKey(target)
		name := target.LookupName()

		g.Go(func() error {
			if gctx.Err() != nil {
				mu.Lock()
				stats.Failed++
				mu.Unlock()
				return nil
			}

			rec, err := r.Scraper.Update(gctx, name)

			mu.Lock()
			defer mu.Unlock()
			stats.Attempted++
			if err != nil {
				stats.Failed++
				log.Warn("refresh: lookup failed", zap.String("company", target.Name), zap.String("lookup", name), zap.Error(err))
				return nil
			}
			switch {
			case rec.Rating != nil:
				stats.Refreshed++
			case rec.RatingUnavailable:
				stats.Unavailable++
			default:
				// A scraper that returns neither leaves the company eligible.
				stats.Failed++
				return nil
			}
			out[key] = rec
			log.Debug("refresh: lookup done", zap.String("company", target.Name), zap.Bool("unavailable", rec.RatingUnavailable))
			return nil
		})
	}

	_ = g.Wait()

	stats.Duration = time.Since(start)
	log.Info("refresh: complete",
		zap.Int("attempted", stats.Attempted),
		zap.Int("refreshed", stats.Refreshed),
		zap.Int("unavailable", stats.Unavailable),
		zap.Int("failed", stats.Failed),
		zap.Duration("duration", stats.Duration),
	)
	return out, stats
}

// Merge returns a copy of all with refreshed data filled into each record
// whose company key appears in refreshed. Only unset fields are filled; the
// registry's display name and alternative names are never replaced.
func Merge(all []model.CompanyRecord, refreshed map[string]model.CompanyRecord) []model.CompanyRecord {
	out := make([]model.CompanyRecord, len(all))
	for i, c := range all {
		out[i] = c
		r, ok := refreshed[resolve.CompanyKey(c)]
		if !ok {
			continue
		}
		m := &out[i]
		if m.NeedsRating() {
			m.Rating = r.Rating
			m.RatingUnavailable = r.Rating == nil && r.RatingUnavailable
		}
		if m.ReviewCount == nil {
			m.ReviewCount = r.ReviewCount
		}
		if m.SourceURL == "" {
			m.SourceURL = r.SourceURL
		}
		if m.Location == "" {
			m.Location = r.Location
		}
		if m.ScrapedAt == nil {
			m.ScrapedAt = r.ScrapedAt
		}
	}
	return out
}
