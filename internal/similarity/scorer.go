// Package similarity provides token-set similarity scoring for short
// strings such as card product names. Card names vary in word order and
// boilerplate suffixes ("UOB Lady's Solitaire Card" vs "UOB Lady's
// Solitaire Visa Signature"), so scoring works on normalized token sets
// rather than edit distance.
package similarity

import "strings"

// noiseTokens are generic card-product words that carry no identifying
// information and are dropped before comparison.
var noiseTokens = map[string]struct{}{
	"visa":       {},
	"mastercard": {},
	"amex":       {},
	"card":       {},
	"signature":  {},
	"platinum":   {},
	"gold":       {},
	"world":      {},
	"credit":     {},
}

// Score returns the Jaccard index of the two strings' normalized token
// sets, in [0, 1]. Two strings that normalize to empty sets score 1;
// exactly one empty set scores 0. Punctuation embedded in a token stays
// attached to it.
func Score(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// tokenSet lowercases, splits on whitespace, and drops noise tokens.
// Duplicates collapse; order is irrelevant.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(strings.TrimSpace(s))) {
		if _, noise := noiseTokens[token]; noise {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}
