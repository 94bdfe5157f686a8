package model

import (
	"math"
	"strings"
	"time"
)

// CompanyRecord is one employer in the canonical registry.
//
// Rating is nil until a rating refresh has run for the company. A refresh that
// reached the rating site but found no score sets RatingUnavailable instead;
// a zero Rating is a real score and is never used to mean "unknown".
type CompanyRecord struct {
	Name              string     `json:"name"`
	AlternativeNames  []string   `json:"alternative_names"`
	Location          string     `json:"location"`
	Rating            *float64   `json:"rating"`
	RatingUnavailable bool       `json:"rating_unavailable,omitempty"`
	ReviewCount       *int       `json:"review_count,omitempty"`
	SourceURL         string     `json:"source_url,omitempty"`
	ScrapedAt         *time.Time `json:"scraped_at,omitempty"`
}

// NeedsRating reports whether the company has never been successfully
// looked up on the rating site.
func (c CompanyRecord) NeedsRating() bool {
	return c.Rating == nil && !c.RatingUnavailable
}

// HasAlternativeName reports whether at least one non-blank alternative name
// is recorded.
func (c CompanyRecord) HasAlternativeName() bool {
	return c.LookupName() != c.Name
}

// LookupName returns the first non-blank alternative name, falling back to
// the display name.
func (c CompanyRecord) LookupName() string {
	for _, alt := range c.AlternativeNames {
		if alt = strings.TrimSpace(alt); alt != "" && alt != c.Name {
			return alt
		}
	}
	return c.Name
}

// AddAlternativeName appends name unless it is blank, equal to the display
// name, or already recorded. It returns true when the record changed.
func (c *CompanyRecord) AddAlternativeName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == c.Name {
		return false
	}
	for _, alt := range c.AlternativeNames {
		if alt == name {
			return false
		}
	}
	c.AlternativeNames = append(c.AlternativeNames, name)
	return true
}

// MaxRating is the top of the rating site's score scale.
const MaxRating = 5.0

// ValidRating reports whether v lies on the 0..MaxRating score scale.
func ValidRating(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= MaxRating
}

// Float returns a pointer to v. Used for optional rating fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v. Used for optional review counts.
func Int(v int) *int { return &v }
