// Package resolve canonicalizes company names and fuzzily matches them
// against the company registry.
package resolve

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/jobscout-cli/internal/model"
)

// legalSuffixes lists trailing legal-entity tokens removed during
// normalization. Sorted longest first at init so compound forms
// ("gmbh & co. kg") win over their tails ("kg").
var legalSuffixes = []string{
	"gmbh & co. kg", "gmbh & co.kg", "gmbh & co kg",
	"gmbh", "ag", "se", "kg", "ohg", "gbr", "ug",
	"inc", "inc.", "corp", "corp.", "ltd", "ltd.",
	"llc", "llc.", "co.", "co", "group",
}

var lower = cases.Lower(language.Und)

func init() {
	sort.SliceStable(legalSuffixes, func(i, j int) bool {
		return len(legalSuffixes[i]) > len(legalSuffixes[j])
	})
}

// Normalize turns a free-text company name into its comparison key:
//  1. Unicode NFC composition and lowercasing
//  2. Collapsing whitespace runs and trimming
//  3. Removing trailing legal suffixes (GmbH, AG, Inc, ...) while present
//
// A suffix is only removed when it is a whole trailing token preceded by a
// space, so "Princeton" keeps its "on" and a bare "AG" stays "ag". Blank
// input yields "" which callers must treat as "no identity".
func Normalize(name string) string {
	key := strings.Join(strings.Fields(norm.NFC.String(lower.String(name))), " ")
	if key == "" {
		return ""
	}

	for {
		stripped := false
		for _, suffix := range legalSuffixes {
			if strings.HasSuffix(key, " "+suffix) {
				key = strings.TrimSpace(strings.TrimSuffix(key, suffix))
				stripped = true
				break
			}
		}
		if !stripped {
			return key
		}
	}
}

// CompanyKey returns the normalized identity of a company record.
func CompanyKey(c model.CompanyRecord) string {
	return Normalize(c.Name)
}
