package matcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/model"
	"github.com/linusng/cardsense/internal/similarity"
)

// FuzzyMatchThreshold is the minimum similarity score for a heuristic
// match. Below it the matcher returns no match and the caller prompts for
// manual selection.
const FuzzyMatchThreshold = 0.5

// CardMatcher resolves wallet-displayed card names to portfolio cards.
type CardMatcher struct {
	store CardStore
}

// NewCardMatcher creates a card matcher over the given store.
func NewCardMatcher(store CardStore) *CardMatcher {
	return &CardMatcher{store: store}
}

// Match resolves a wallet card name for a user. A nil result means no
// match cleared the threshold; the caller treats that as unknown. Lookup
// and portfolio errors are logged and degrade to weaker results rather
// than failing the match — a lower-confidence guess is less harmful than
// blocking the user's transaction entry.
func (m *CardMatcher) Match(ctx context.Context, userID, walletCardName string) *model.CardMatch {
	// Verified mappings always win; no heuristic runs on a hit.
	mapping, err := m.store.GetCardMapping(ctx, userID, walletCardName)
	if err == nil {
		// Usage tracking is best-effort.
		if incErr := m.store.IncrementCardMappingUseCount(ctx, userID, walletCardName); incErr != nil {
			common.LogDebug("Failed to increment mapping use count", common.Fields{
				"user_id": userID,
				"error":   incErr.Error(),
			})
		}
		return &model.CardMatch{
			CardID:     mapping.CardID,
			CardName:   mapping.CardName,
			Confidence: mapping.Confidence,
			Source:     model.CardSourceVerified,
		}
	}
	if !errors.Is(err, common.ErrNotFound) {
		// A failed lookup is treated as not-found so fuzzy matching can
		// still run, but loudly enough for operators to notice.
		common.LogError(err, "Card mapping lookup failed, falling back to fuzzy match", common.Fields{
			"user_id": userID,
		})
	}

	cards, err := m.store.GetUserCards(ctx, userID)
	if err != nil {
		// No portfolio means nothing to compare against.
		common.LogError(err, "Portfolio fetch failed, no card match possible", common.Fields{
			"user_id": userID,
		})
		return nil
	}

	var best *model.Card
	bestScore := 0.0
	for i := range cards {
		score := similarity.Score(walletCardName, cards[i].DisplayName())
		if score > bestScore {
			best = &cards[i]
			bestScore = score
		}
	}

	if best == nil || bestScore < FuzzyMatchThreshold {
		return nil
	}

	return &model.CardMatch{
		CardID:     best.ID,
		CardName:   best.DisplayName(),
		Confidence: bestScore,
		Source:     model.CardSourceFuzzy,
	}
}

// SaveMapping records a user-confirmed association between a wallet name
// and a portfolio card, overwriting any prior mapping for that exact
// wallet name. Unlike Match, storage errors propagate: silently losing an
// explicit correction would cause repeated annoyance.
func (m *CardMatcher) SaveMapping(ctx context.Context, userID, walletName, cardID string) error {
	mapping := &model.CardNameMapping{
		UserID:     userID,
		WalletName: walletName,
		CardID:     cardID,
		Confidence: 1.0,
	}
	if err := m.store.SaveCardMapping(ctx, mapping); err != nil {
		return fmt.Errorf("failed to save card mapping: %w", err)
	}
	return nil
}

// Mappings lists all stored mappings for a user. Storage errors propagate.
func (m *CardMatcher) Mappings(ctx context.Context, userID string) ([]model.CardNameMapping, error) {
	return m.store.GetUserCardMappings(ctx, userID)
}
