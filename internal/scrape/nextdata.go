package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"

	"github.com/sells-group/jobscout-cli/internal/model"
)

const nextDataID = "__next_data__"

// Profile is a company as the rating site describes it.
type Profile struct {
	Name        string
	Slug        string
	CountryCode string
	City        string
	Score       *float64
	ReviewCount *int
}

// Listing is one page of search results.
type Listing struct {
	Profiles   []Profile
	Page       int
	TotalPages int
}

// nextData returns the embedded __NEXT_DATA__ JSON document of an HTML page.
func nextData(body []byte) (gjson.Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, eris.Wrap(err, "scrape: parse html")
	}
	raw := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").First().Text())
	if raw == "" {
		return gjson.Result{}, eris.New("scrape: page has no __NEXT_DATA__ document")
	}
	if !gjson.Valid(raw) {
		return gjson.Result{}, eris.New("scrape: __NEXT_DATA__ is not valid json")
	}
	return gjson.Parse(raw), nil
}

// dehydrated returns the cached query result whose first key is name.
func dehydrated(data gjson.Result, name string) gjson.Result {
	var found gjson.Result
	data.Get("props.pageProps.dehydratedState.queries").ForEach(func(_, q gjson.Result) bool {
		if q.Get("queryKey.0").String() == name {
			found = q.Get("state.data")
			return false
		}
		return true
	})
	return found
}

func parseProfile(p gjson.Result) Profile {
	out := Profile{
		Name:        strings.TrimSpace(p.Get("name").String()),
		Slug:        p.Get("slug").String(),
		CountryCode: p.Get("countryCode").String(),
		City:        p.Get("city").String(),
	}
	if s := p.Get("score.value"); s.Type == gjson.Number && model.ValidRating(s.Float()) {
		v := s.Float()
		out.Score = &v
	}
	if rc := p.Get("reviewCount"); rc.Type == gjson.Number {
		v := int(rc.Int())
		if v >= 0 {
			out.ReviewCount = &v
		}
	}
	return out
}

// parseProfilePage reads the company profile from a profile page.
func parseProfilePage(body []byte) (Profile, error) {
	data, err := nextData(body)
	if err != nil {
		return Profile{}, err
	}
	p := data.Get("props.pageProps.profile")
	if !p.Exists() {
		p = dehydrated(data, "profile")
	}
	if !p.Exists() || p.Get("name").String() == "" {
		return Profile{}, ErrNotFound
	}
	return parseProfile(p), nil
}

// parseListing reads the profiles and pagination from a search page.
func parseListing(body []byte) (Listing, error) {
	data, err := nextData(body)
	if err != nil {
		return Listing{}, err
	}
	q := dehydrated(data, "profiles")
	var l Listing
	q.Get("profiles").ForEach(func(_, p gjson.Result) bool {
		if prof := parseProfile(p); prof.Name != "" {
			l.Profiles = append(l.Profiles, prof)
		}
		return true
	})
	l.Page = int(q.Get("pagination.currentPage").Int())
	l.TotalPages = int(q.Get("pagination.totalPages").Int())
	return l, nil
}
