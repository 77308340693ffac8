package keyword

import (
	"strings"

	"github.com/linusng/cardsense/internal/model"
)

// Confidence assigned by keyword length: longer keywords are less likely
// to false-positive inside an unrelated merchant string.
const (
	longKeywordConfidence  = 0.9
	shortKeywordConfidence = 0.7
	longKeywordLen         = 6
)

// Matcher classifies merchant strings against an ordered rule set. It is
// read-only after construction and safe for concurrent use.
type Matcher struct {
	rules []Rule
}

// NewMatcher creates a matcher over the given rules. Pass DefaultRules()
// for the built-in lists.
func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Match classifies a merchant string. It always succeeds: when no keyword
// hits, the result is the general category with zero confidence.
func (m *Matcher) Match(merchantName string) model.MerchantMatch {
	normalized := normalizeMerchant(merchantName)

	for _, rule := range m.rules {
		for _, kw := range rule.Keywords {
			if !strings.Contains(normalized, kw) {
				continue
			}
			confidence := shortKeywordConfidence
			if len(kw) >= longKeywordLen {
				confidence = longKeywordConfidence
			}
			return model.MerchantMatch{
				CategoryID:   rule.Category,
				CategoryName: rule.Category.Name(),
				Confidence:   confidence,
				Source:       model.MerchantSourcePattern,
			}
		}
	}

	return model.MerchantMatch{
		CategoryID:   model.CategoryGeneral,
		CategoryName: model.CategoryGeneral.Name(),
		Confidence:   0,
		Source:       model.MerchantSourceDefault,
	}
}

// normalizeMerchant uppercases the input and strips everything except
// letters, digits, spaces, and periods. Acquirer suffixes like "#123" or
// "*SG" reduce to their alphanumeric remains.
func normalizeMerchant(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch {
		case r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == ' ', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}
