package scrape

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// ListingSource crawls a filtered search listing page by page and returns
// every profile on it as a registry record.
type ListingSource struct {
	Client   *Client
	Query    string
	Filters  url.Values
	MaxPages int // 0 means follow pagination to the end
}

// GetCompanies implements store.CompanySource.
func (s *ListingSource) GetCompanies(ctx context.Context) ([]model.CompanyRecord, error) {
	var out []model.CompanyRecord
	for page := 1; ; page++ {
		if s.MaxPages > 0 && page > s.MaxPages {
			break
		}
		l, err := s.Client.Search(ctx, s.Query, page, s.Filters)
		if err != nil {
			return nil, eris.Wrapf(err, "scrape: listing page %d", page)
		}
		for _, p := range l.Profiles {
			out = append(out, s.Client.record(p, ""))
		}
		zap.L().Info("scrape: listing page",
			zap.Int("page", l.Page),
			zap.Int("total_pages", l.TotalPages),
			zap.Int("profiles", len(l.Profiles)),
		)
		if len(l.Profiles) == 0 || l.Page >= l.TotalPages {
			break
		}
	}
	return out, nil
}
