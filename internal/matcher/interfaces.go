// Package matcher implements the two matching pipelines at the heart of
// cardsense: wallet card name to portfolio card, and merchant string to
// spending category. Both try an exact or authoritative source first and
// fall back to a local heuristic, and both persist user corrections as
// verified mappings consulted before any heuristic on later attempts.
package matcher

import (
	"context"

	"github.com/linusng/cardsense/internal/model"
)

// CardStore is the slice of storage the card matcher needs.
type CardStore interface {
	GetCardMapping(ctx context.Context, userID, walletName string) (*model.CardNameMapping, error)
	SaveCardMapping(ctx context.Context, mapping *model.CardNameMapping) error
	GetUserCardMappings(ctx context.Context, userID string) ([]model.CardNameMapping, error)
	IncrementCardMappingUseCount(ctx context.Context, userID, walletName string) error
	GetUserCards(ctx context.Context, userID string) ([]model.Card, error)
}

// OverrideStore is the slice of storage the merchant matcher needs for
// persisting corrections.
type OverrideStore interface {
	SaveMerchantOverride(ctx context.Context, override *model.MerchantOverride) error
	GetUserMerchantOverrides(ctx context.Context, userID string) ([]model.MerchantOverride, error)
}
