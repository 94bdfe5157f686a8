package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugs(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"Acme GmbH", []string{"acme", "acme-gmbh"}},
		{"Mercedes-Benz AG", []string{"mercedes-benz", "mercedesbenz", "mercedes-benz-ag"}},
		{"Müller & Söhne KG", []string{"mueller-soehne", "muellersoehne", "mueller-soehne-kg"}},
		{"Weiß Brot", []string{"weiss-brot", "weissbrot"}},
		{"Société Générale SE", []string{"societe-generale", "societegenerale", "societe-generale-se"}},
		{"SAP", []string{"sap"}},
		{"  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugs(tt.name))
		})
	}
}

func TestSlugs_Limited(t *testing.T) {
	assert.LessOrEqual(t, len(Slugs("A-B-C GmbH & Co. KG")), maxSlugs)
}
