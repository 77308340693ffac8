package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linusng/cardsense/internal/classify"
	"github.com/linusng/cardsense/internal/keyword"
	"github.com/linusng/cardsense/internal/matcher"
	"github.com/linusng/cardsense/internal/model"
	"github.com/linusng/cardsense/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cardMatcher := matcher.NewCardMatcher(store)
	merchantMatcher := matcher.NewMerchantMatcher(
		classify.NewStoreClassifier(store),
		keyword.NewMatcher(keyword.DefaultRules()),
		store,
	)

	return NewServer(DefaultConfig(), store, cardMatcher, merchantMatcher, logger)
}

func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Categories(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []categoryResponse `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Categories, len(model.AllCategories))
	assert.Equal(t, "dining", resp.Categories[0].ID)
}

func TestServer_CardLifecycle(t *testing.T) {
	server := newTestServer(t)

	// Add a card.
	rec := doJSON(t, server, http.MethodPost, "/api/users/user-1/cards", addCardRequest{
		Bank: "DBS", Name: "Altitude",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Card model.Card `json:"card"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Card.ID)

	// List it.
	rec = doJSON(t, server, http.MethodGet, "/api/users/user-1/cards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Cards []model.Card `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Cards, 1)

	// Delete it.
	rec = doJSON(t, server, http.MethodDelete, "/api/users/user-1/cards/"+created.Card.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting again is a 404.
	rec = doJSON(t, server, http.MethodDelete, "/api/users/user-1/cards/"+created.Card.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_MatchCard(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/users/user-1/cards", addCardRequest{
		Bank: "DBS", Name: "Altitude",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Card model.Card `json:"card"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	t.Run("fuzzy hit", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/match/card", matchCardRequest{
			UserID: "user-1", WalletName: "DBS Altitude Visa Signature",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Match *model.CardMatch `json:"match"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Match)
		assert.Equal(t, created.Card.ID, resp.Match.CardID)
		assert.Equal(t, model.CardSourceFuzzy, resp.Match.Source)
	})

	t.Run("miss is 200 with null match", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/match/card", matchCardRequest{
			UserID: "user-1", WalletName: "Completely Unrelated Bank Product",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Match *model.CardMatch `json:"match"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Nil(t, resp.Match)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/match/card", map[string]string{
			"user_id": "user-1",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_SaveMappingThenVerified(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/users/user-1/cards", addCardRequest{
		Bank: "Citi", Name: "PremierMiles",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Card model.Card `json:"card"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, server, http.MethodPost, "/api/users/user-1/mappings", saveMappingRequest{
		WalletName: "My Mystery Card", CardID: created.Card.ID,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/match/card", matchCardRequest{
		UserID: "user-1", WalletName: "My Mystery Card",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Match *model.CardMatch `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Match)
	assert.Equal(t, model.CardSourceVerified, resp.Match.Source)
	assert.Equal(t, 1.0, resp.Match.Confidence)

	// Mapping to a card the user does not own is a server-side failure
	// surfaced to the client.
	rec = doJSON(t, server, http.MethodPost, "/api/users/user-1/mappings", saveMappingRequest{
		WalletName: "Ghost", CardID: "no-such-card",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_MatchMerchant(t *testing.T) {
	server := newTestServer(t)

	t.Run("keyword fallback", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/match/merchant", matchMerchantRequest{
			UserID: "user-1", MerchantName: "STARBUCKS COFFEE #123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "dining", resp["category_id"])
		assert.Equal(t, "pattern_match", resp["source"])
	})

	t.Run("unknown merchant still 200", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/match/merchant", matchMerchantRequest{
			UserID: "user-1", MerchantName: "RANDOM UNKNOWN MERCHANT XYZ",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "general", resp["category_id"])
		assert.Equal(t, "default", resp["source"])
		assert.Equal(t, 0.0, resp["confidence"])
	})
}

func TestServer_OverrideLifecycle(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/users/user-1/overrides", saveOverrideRequest{
		Pattern: "MY KOPITIAM", CategoryID: "dining",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The override is now authoritative for matching.
	rec = doJSON(t, server, http.MethodPost, "/api/match/merchant", matchMerchantRequest{
		UserID: "user-1", MerchantName: "MY KOPITIAM #02-11",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "dining", resp["category_id"])
	assert.Equal(t, "user_override", resp["source"])

	// Unknown categories are rejected.
	rec = doJSON(t, server, http.MethodPost, "/api/users/user-1/overrides", saveOverrideRequest{
		Pattern: "X", CategoryID: "crypto",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// List and delete.
	rec = doJSON(t, server, http.MethodGet, "/api/users/user-1/overrides", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodDelete, "/api/users/user-1/overrides", deleteByKeyRequest{Key: "MY KOPITIAM"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, server, http.MethodDelete, "/api/users/user-1/overrides", deleteByKeyRequest{Key: "MY KOPITIAM"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
