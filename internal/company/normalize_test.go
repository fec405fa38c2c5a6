package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"google canonical", "Google", "Google"},
		{"google lower", "google", "Google"},
		{"google inc", "google inc", "Google"},
		{"google inc period", "Google Inc.", "Google"},
		{"alphabet", "Alphabet", "Google"},
		{"alphabet inc", "alphabet inc", "Google"},
		{"meta platforms", "meta platforms", "Meta"},
		{"facebook", "Facebook", "Meta"},
		{"facebook technologies", "Facebook Technologies", "Meta"},
		{"amazon dot com", "amazon.com", "Amazon"},
		{"aws", "Amazon Web Services", "Amazon"},
		{"aws inc comma", "Amazon Web Services, Inc", "Amazon"},
		{"aws inc no comma", "Amazon Web Services Inc.", "Amazon"},
		{"microsoft corporation", "microsoft corporation", "Microsoft"},
		{"microsoft corp", "Microsoft Corp", "Microsoft"},
		{"apple inc", "Apple Inc.", "Apple"},
		{"netflix", "NETFLIX", "Netflix"},
		{"shopify inc", "shopify inc", "Shopify"},
		{"acme inc", "Acme Inc", "Acme"},
		{"acme inc period", "Acme Inc.", "Acme"},
		{"acme comma inc", "Acme, Inc.", "Acme"},
		{"acme llc", "Acme LLC", "Acme"},
		{"acme corporation", "Acme Corporation", "Acme"},
		{"acme ltd", "Acme Ltd", "Acme"},
		{"acme group", "Acme Group", "Acme"},
		{"acme technologies", "Acme Technologies", "Acme"},
		{"acme solutions", "Acme Solutions", "Acme"},
		{"acme services", "Acme Services", "Acme"},
		{"stacked suffixes", "Acme Technology Services Inc", "Acme"},
		{"stacked suffixes without legal form", "Acme Technologies Group", "Acme"},
		{"title cases", "some company name", "Some Company Name"},
		{"upper input kept after first rune", "ACME", "Acme"},
		{"surrounding whitespace", "  Google  ", "Google"},
		{"inner whitespace", "  acme  inc  ", "Acme"},
		{"suffix alone is a name", "Services", "Services"},
		{"accented", "école polytechnique", "École Polytechnique"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Google Inc.",
		"meta  platforms",
		"Amazon Web Services, Inc",
		"Acme, Inc.",
		"Acme Technologies Group",
		"some   company\tname",
		"ılık teknoloji",
		"Stripe",
		"Group",
		"x corp.",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestNormalize_AliasTargetsAreKeys(t *testing.T) {
	for variant, canonical := range aliases {
		assert.Equal(t, canonical, Normalize(canonical), "canonical label of %q", variant)
	}
}
