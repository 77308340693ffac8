package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/model"
)

// Config holds settings for the HTTP classifier client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// httpClient implements Client against a remote classification endpoint.
type httpClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPClient creates a classifier client for the configured endpoint.
func NewHTTPClient(cfg Config) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: classifier base URL is required", common.ErrMissingConfig)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type classifyRequest struct {
	UserID       string `json:"user_id"`
	MerchantName string `json:"merchant_name"`
}

type classifyResponse struct {
	CategoryID string  `json:"category_id"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// ClassifyMerchant asks the remote service for a classification. A 404 or
// an empty body maps to ErrNoMatch; every other failure is a wrapped
// transport error.
func (c *httpClient) ClassifyMerchant(ctx context.Context, userID, merchantName string) (Result, error) {
	jsonBody, err := json.Marshal(classifyRequest{
		UserID:       userID,
		MerchantName: merchantName,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", strings.NewReader(string(jsonBody)))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNoContent:
		return Result{}, ErrNoMatch
	case http.StatusTooManyRequests:
		return Result{}, common.ErrClassifierRateLimit
	default:
		return Result{}, fmt.Errorf("classifier error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(body) == 0 {
		return Result{}, ErrNoMatch
	}

	var response classifyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Result{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.CategoryID == "" {
		return Result{}, ErrNoMatch
	}

	categoryID := model.CategoryID(response.CategoryID)
	if !categoryID.Valid() {
		return Result{}, fmt.Errorf("classifier returned unknown category %q", response.CategoryID)
	}

	source := model.MerchantMatchSource(response.Source)
	if source == "" {
		source = model.MerchantSourceOverride
	}

	return Result{
		CategoryID: categoryID,
		Confidence: response.Confidence,
		Source:     source,
	}, nil
}
