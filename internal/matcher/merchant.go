package matcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/linusng/cardsense/internal/classify"
	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/keyword"
	"github.com/linusng/cardsense/internal/model"
)

// MerchantMatcher classifies merchant strings into spending categories.
// The authoritative classifier (which knows the user's past corrections)
// always wins when reachable; the local keyword matcher is the degraded
// but functional fallback, so Match never fails.
type MerchantMatcher struct {
	classifier classify.Client
	keywords   *keyword.Matcher
	overrides  OverrideStore
}

// NewMerchantMatcher creates a merchant matcher. classifier may be nil,
// in which case every match uses the local keyword fallback.
func NewMerchantMatcher(classifier classify.Client, keywords *keyword.Matcher, overrides OverrideStore) *MerchantMatcher {
	return &MerchantMatcher{
		classifier: classifier,
		keywords:   keywords,
		overrides:  overrides,
	}
}

// Match classifies a merchant string. It always returns a usable result:
// an authoritative row when available, a keyword hit otherwise, and the
// general category with zero confidence when nothing matches. Fallbacks
// are logged and tagged with a reason so elevated fallback rates are
// visible without changing the caller's contract.
func (m *MerchantMatcher) Match(ctx context.Context, userID, merchantName string) model.MerchantMatch {
	reason := ""

	switch {
	case m.classifier == nil:
		reason = "no classifier configured"
	default:
		result, err := m.classifier.ClassifyMerchant(ctx, userID, merchantName)
		if err == nil {
			return model.MerchantMatch{
				CategoryID:   result.CategoryID,
				CategoryName: result.CategoryID.Name(),
				Confidence:   result.Confidence,
				Source:       result.Source,
			}
		}
		if errors.Is(err, classify.ErrNoMatch) {
			reason = "no authoritative row"
		} else {
			reason = "classifier error: " + err.Error()
			common.LogError(err, "Merchant classifier unavailable, using keyword fallback", common.Fields{
				"user_id": userID,
			})
		}
	}

	match := m.keywords.Match(merchantName)
	match.FallbackReason = reason
	return match
}

// SaveOverride records a user correction: the merchant pattern will
// authoritatively resolve to the category on future matches, overwriting
// any prior override for the same pattern. Storage errors propagate.
func (m *MerchantMatcher) SaveOverride(ctx context.Context, userID, merchantPattern string, categoryID model.CategoryID) error {
	override := &model.MerchantOverride{
		UserID:     userID,
		Pattern:    merchantPattern,
		CategoryID: categoryID,
	}
	if err := m.overrides.SaveMerchantOverride(ctx, override); err != nil {
		return fmt.Errorf("failed to save merchant override: %w", err)
	}
	return nil
}

// Overrides lists all saved overrides for a user. Storage errors propagate.
func (m *MerchantMatcher) Overrides(ctx context.Context, userID string) ([]model.MerchantOverride, error) {
	return m.overrides.GetUserMerchantOverrides(ctx, userID)
}
