package model

// CardMatchSource indicates how a card match was produced.
type CardMatchSource string

const (
	// CardSourceVerified indicates an exact stored mapping was found.
	CardSourceVerified CardMatchSource = "verified"
	// CardSourceFuzzy indicates a heuristic similarity match against the portfolio.
	CardSourceFuzzy CardMatchSource = "fuzzy"
)

// CardMatch is the result of matching a wallet-displayed card name against
// a user's portfolio. A nil *CardMatch means no match cleared the
// confidence threshold and the caller should prompt for manual selection.
type CardMatch struct {
	CardID     string          `json:"card_id"`
	CardName   string          `json:"card_name"`
	Source     CardMatchSource `json:"source"`
	Confidence float64         `json:"confidence"`
}

// MerchantMatchSource indicates how a merchant classification was produced.
type MerchantMatchSource string

const (
	// MerchantSourceOverride indicates an authoritative or user-saved mapping.
	MerchantSourceOverride MerchantMatchSource = "user_override"
	// MerchantSourcePattern indicates a local keyword hit.
	MerchantSourcePattern MerchantMatchSource = "pattern_match"
	// MerchantSourceDefault indicates no match; the category is the
	// general catch-all with zero confidence.
	MerchantSourceDefault MerchantMatchSource = "default"
)

// MerchantMatch is the result of classifying a merchant string. Merchant
// matching is total: unmatched merchants resolve to the general category
// with zero confidence rather than an error.
type MerchantMatch struct {
	CategoryID   CategoryID          `json:"category_id"`
	CategoryName string              `json:"category_name"`
	Source       MerchantMatchSource `json:"source"`
	// FallbackReason records why the authoritative classifier was not
	// used, when the result came from the local fallback. Empty on the
	// primary path. Diagnostic only; not part of the matching contract.
	FallbackReason string  `json:"fallback_reason,omitempty"`
	Confidence     float64 `json:"confidence"`
}
