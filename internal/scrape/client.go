package scrape

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/jobscout-cli/internal/fetcher"
	"github.com/sells-group/jobscout-cli/internal/model"
)

// Client reads profile and search pages from the rating site.
type Client struct {
	f       fetcher.Fetcher
	baseURL string
	country string
}

// NewClient creates a Client for baseURL (e.g. https://www.kununu.com) and a
// two-letter country section.
func NewClient(f fetcher.Fetcher, baseURL, country string) *Client {
	if country == "" {
		country = "de"
	}
	return &Client{f: f, baseURL: strings.TrimRight(baseURL, "/"), country: strings.ToLower(country)}
}

// ProfileURL returns the profile page URL for slug.
func (c *Client) ProfileURL(slug string) string {
	return c.baseURL + "/" + c.country + "/" + url.PathEscape(slug)
}

// SearchURL returns the search page URL. Extra filters are added as given.
func (c *Client) SearchURL(query string, page int, filters url.Values) string {
	q := url.Values{}
	for k, vs := range filters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if query != "" {
		q.Set("q", query)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	u := c.baseURL + "/" + c.country + "/search"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// Profile fetches and parses the profile page at rawURL.
func (c *Client) Profile(ctx context.Context, rawURL string) (model.CompanyRecord, error) {
	page, err := c.get(ctx, rawURL)
	if err != nil {
		return model.CompanyRecord{}, err
	}
	p, err := parseProfilePage(page.Body)
	if err != nil {
		return model.CompanyRecord{}, err
	}
	return c.record(p, page.URL), nil
}

// Search fetches one page of search results.
func (c *Client) Search(ctx context.Context, query string, page int, filters url.Values) (Listing, error) {
	p, err := c.get(ctx, c.SearchURL(query, page, filters))
	if err != nil {
		return Listing{}, err
	}
	l, err := parseListing(p.Body)
	if err != nil {
		return Listing{}, err
	}
	if l.Page == 0 {
		l.Page = max(page, 1)
	}
	return l, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*fetcher.Page, error) {
	page, err := c.f.Get(ctx, rawURL)
	if errors.Is(err, fetcher.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if blocked, kind := DetectBlock(page); blocked {
		return nil, eris.Errorf("scrape: blocked by %s at %s", kind, rawURL)
	}
	return page, nil
}

// record turns a profile into a registry record. sourceURL wins over the
// URL derived from the profile's slug.
func (c *Client) record(p Profile, sourceURL string) model.CompanyRecord {
	if sourceURL == "" && p.Slug != "" {
		sourceURL = c.profileURLFor(p)
	}
	return model.CompanyRecord{
		Name:              p.Name,
		Location:          p.City,
		Rating:            p.Score,
		RatingUnavailable: p.Score == nil,
		ReviewCount:       p.ReviewCount,
		SourceURL:         sourceURL,
	}
}

func (c *Client) profileURLFor(p Profile) string {
	country := p.CountryCode
	if country == "" {
		country = c.country
	}
	return c.baseURL + "/" + strings.ToLower(country) + "/" + url.PathEscape(p.Slug)
}
