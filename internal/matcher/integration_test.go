package matcher

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linusng/cardsense/internal/classify"
	"github.com/linusng/cardsense/internal/keyword"
	"github.com/linusng/cardsense/internal/model"
	"github.com/linusng/cardsense/internal/storage"
)

// End-to-end flow over real SQLite: fuzzy match, user correction,
// verified precedence on the next attempt.
func TestCardMatcher_CorrectionFlow(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.SaveCard(ctx, &model.Card{
		ID: "card-1", UserID: "user-1", Bank: "DBS", Name: "Altitude",
	}))
	require.NoError(t, store.SaveCard(ctx, &model.Card{
		ID: "card-2", UserID: "user-1", Bank: "DBS", Name: "Vantage",
	}))

	m := NewCardMatcher(store)

	// First sighting: fuzzy match picks the closest portfolio card.
	got := m.Match(ctx, "user-1", "DBS Altitude Visa Signature")
	require.NotNil(t, got)
	assert.Equal(t, "card-1", got.CardID)
	assert.Equal(t, model.CardSourceFuzzy, got.Source)

	// The user corrects the guess to a different card.
	require.NoError(t, m.SaveMapping(ctx, "user-1", "DBS Altitude Visa Signature", "card-2"))

	// Subsequent matches honor the correction even though fuzzy matching
	// would still pick card-1.
	got = m.Match(ctx, "user-1", "DBS Altitude Visa Signature")
	require.NotNil(t, got)
	assert.Equal(t, "card-2", got.CardID)
	assert.Equal(t, model.CardSourceVerified, got.Source)
	assert.Equal(t, 1.0, got.Confidence)
}

// The store-backed classifier makes saved overrides authoritative for the
// merchant matcher without a remote endpoint.
func TestMerchantMatcher_OverrideFlow(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))

	m := NewMerchantMatcher(
		classify.NewStoreClassifier(store),
		keyword.NewMatcher(keyword.DefaultRules()),
		store,
	)

	// Keyword fallback classifies the coffee shop as dining.
	got := m.Match(ctx, "user-1", "ACME COFFEE ROASTERS")
	assert.Equal(t, model.CategoryDining, got.CategoryID)
	assert.Equal(t, model.MerchantSourcePattern, got.Source)

	// The user files it under online shopping instead (beans by
	// subscription); the override wins from then on.
	require.NoError(t, m.SaveOverride(ctx, "user-1", "ACME COFFEE", model.CategoryOnline))

	got = m.Match(ctx, "user-1", "ACME COFFEE ROASTERS")
	assert.Equal(t, model.CategoryOnline, got.CategoryID)
	assert.Equal(t, model.MerchantSourceOverride, got.Source)
	assert.Equal(t, 1.0, got.Confidence)

	// Other users are unaffected.
	got = m.Match(ctx, "user-2", "ACME COFFEE ROASTERS")
	assert.Equal(t, model.CategoryDining, got.CategoryID)
}
