package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(Config{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return client
}

func TestNewHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestHTTPClient_ClassifyMerchant(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/classify", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user-1", req.UserID)
		assert.Equal(t, "STARBUCKS ORCHARD", req.MerchantName)

		_ = json.NewEncoder(w).Encode(classifyResponse{
			CategoryID: "dining",
			Confidence: 0.95,
			Source:     "user_override",
		})
	})

	got, err := client.ClassifyMerchant(context.Background(), "user-1", "STARBUCKS ORCHARD")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryDining, got.CategoryID)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
	assert.Equal(t, model.MerchantSourceOverride, got.Source)
}

func TestHTTPClient_NoMatch(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "404 response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "204 response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
		},
		{
			name: "empty category in body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(classifyResponse{})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.ClassifyMerchant(context.Background(), "user-1", "WHOKNOWS")
			assert.ErrorIs(t, err, ErrNoMatch)
		})
	}
}

func TestHTTPClient_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		_, err := client.ClassifyMerchant(context.Background(), "user-1", "ANY")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoMatch)
	})

	t.Run("rate limited", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := client.ClassifyMerchant(context.Background(), "user-1", "ANY")
		assert.ErrorIs(t, err, common.ErrClassifierRateLimit)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(classifyResponse{CategoryID: "crypto", Confidence: 0.9})
		})
		_, err := client.ClassifyMerchant(context.Background(), "user-1", "ANY")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown category")
	})

	t.Run("context cancellation", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(50 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		})

		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()

		_, err := client.ClassifyMerchant(ctx, "user-1", "ANY")
		assert.Error(t, err)
	})
}
