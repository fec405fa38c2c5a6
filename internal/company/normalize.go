// Package company canonicalizes employer names and decides whether two names
// refer to the same employer.
package company

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// aliases maps lowercased, whitespace-collapsed variants to canonical labels.
// Every canonical label must itself be a key (lowercased) so normalization is idempotent.
var aliases = map[string]string{
	"shopify":      "Shopify",
	"shopify inc":  "Shopify",
	"shopify inc.": "Shopify",

	"google":       "Google",
	"google inc":   "Google",
	"google inc.":  "Google",
	"alphabet":     "Google",
	"alphabet inc": "Google",

	"meta":               "Meta",
	"meta platforms":     "Meta",
	"meta platforms inc": "Meta",
	"facebook":           "Meta",
	"facebook inc":       "Meta",
	"facebook inc.":      "Meta",

	"amazon":                   "Amazon",
	"amazon.com":               "Amazon",
	"amazon web services":      "Amazon",
	"amazon aws":               "Amazon",
	"amazon web services, inc": "Amazon",

	"microsoft":             "Microsoft",
	"microsoft corporation": "Microsoft",
	"microsoft corp":        "Microsoft",
	"microsoft corp.":       "Microsoft",

	"apple":      "Apple",
	"apple inc":  "Apple",
	"apple inc.": "Apple",

	"netflix":      "Netflix",
	"netflix inc":  "Netflix",
	"netflix inc.": "Netflix",
}

// legalSuffix matches one trailing legal or generic suffix, with an optional period.
var legalSuffix = regexp.MustCompile(`\s+(inc|llc|corp|corporation|ltd|group|technologies|technology|solutions|services)\.?$`)

// Normalize returns the canonical label for a raw employer name.
//
// The name is lowercased and its whitespace collapsed. Known variants map to
// their canonical label. Otherwise trailing suffixes are stripped until none
// remain (the alias table is consulted again after every strip) and the result
// is title-cased word by word. Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	s := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if s == "" {
		return ""
	}

	for {
		if canonical, ok := aliases[s]; ok {
			return canonical
		}
		stripped := strings.TrimRight(legalSuffix.ReplaceAllString(s, ""), " ,")
		if stripped == s || stripped == "" {
			break
		}
		s = stripped
	}

	return titleCase(s)
}

// titleCase upper-cases the first rune of each space-separated word and keeps the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}
