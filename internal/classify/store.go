package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/model"
)

// OverrideReader is the slice of storage the store-backed classifier needs.
type OverrideReader interface {
	GetMerchantOverride(ctx context.Context, userID, merchantName string) (*model.MerchantOverride, error)
	IncrementMerchantOverrideUseCount(ctx context.Context, userID, pattern string) error
}

// storeClassifier serves classifications from the local overrides table.
// Used when no remote classifier endpoint is configured; the user's saved
// corrections remain authoritative even in a single-node deployment.
type storeClassifier struct {
	overrides OverrideReader
}

// NewStoreClassifier creates a classifier backed by local override storage.
func NewStoreClassifier(overrides OverrideReader) Client {
	return &storeClassifier{overrides: overrides}
}

// ClassifyMerchant looks up a stored override for the merchant. Overrides
// are user corrections, so hits carry full confidence.
func (s *storeClassifier) ClassifyMerchant(ctx context.Context, userID, merchantName string) (Result, error) {
	override, err := s.overrides.GetMerchantOverride(ctx, userID, merchantName)
	if errors.Is(err, common.ErrNotFound) {
		return Result{}, ErrNoMatch
	}
	if err != nil {
		return Result{}, fmt.Errorf("override lookup failed: %w", err)
	}

	// Usage tracking is best-effort; a failed bump must not fail the match.
	if err := s.overrides.IncrementMerchantOverrideUseCount(ctx, userID, override.Pattern); err != nil {
		common.LogDebug("Failed to increment override use count", common.Fields{
			"user_id": userID,
			"pattern": override.Pattern,
			"error":   err.Error(),
		})
	}

	return Result{
		CategoryID: override.CategoryID,
		Confidence: 1.0,
		Source:     model.MerchantSourceOverride,
	}, nil
}
