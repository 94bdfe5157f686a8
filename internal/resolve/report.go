package resolve

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Report is the reviewable output of a batch match. Operators confirm a
// suggestion by setting its outcome to "confirmed" and keeping only the
// chosen candidate in matches.
type Report struct {
	Threshold float64  `yaml:"threshold"`
	TopN      int      `yaml:"top_n"`
	Entries   []Result `yaml:"entries"`
}

// Confirmed returns query -> company name for every confirmed entry.
func (r Report) Confirmed() map[string]string {
	out := make(map[string]string)
	for _, e := range r.Entries {
		if e.Outcome != OutcomeConfirmed || len(e.Matches) == 0 {
			continue
		}
		out[e.Query] = e.Matches[0].Name
	}
	return out
}

// WriteReport writes the report as YAML to path.
func WriteReport(path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "resolve: marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "resolve: write report %s", path)
	}
	return nil
}

// LoadReport reads a YAML report written by WriteReport.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: read report %s", path)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "resolve: parse report")
	}
	return &r, nil
}
