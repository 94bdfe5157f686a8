package scrape

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugs = 5

var (
	slugSuffixes = regexp.MustCompile(`(?i)\b(gmbh|ag|se|ltd|inc|corp|llc|co|kg|ohg)\b\.?`)
	slugJunk     = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	slugSpace    = regexp.MustCompile(`\s+`)

	umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")
)

// foldSlug spells German umlauts the way the rating site does in its URLs
// and strips the remaining diacritics.
func foldSlug(s string) string {
	s = umlauts.Replace(norm.NFC.String(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugs returns candidate profile slugs for a company name, most likely first.
func Slugs(name string) []string {
	lower := foldSlug(strings.ToLower(strings.TrimSpace(name)))

	base := slugJunk.ReplaceAllString(slugSuffixes.ReplaceAllString(lower, ""), "")
	base = strings.Trim(slugSpace.ReplaceAllString(strings.TrimSpace(base), "-"), "-")

	var out []string
	add := func(s string) {
		if s == "" || len(out) >= maxSlugs {
			return
		}
		for _, o := range out {
			if o == s {
				return
			}
		}
		out = append(out, s)
	}

	add(base)
	if strings.Contains(base, "-") {
		add(strings.ReplaceAll(base, "-", ""))
	}
	full := slugJunk.ReplaceAllString(lower, "")
	add(strings.Trim(slugSpace.ReplaceAllString(strings.TrimSpace(full), "-"), "-"))
	return out
}
