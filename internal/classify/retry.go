package classify

import (
	"context"
	"errors"

	"github.com/linusng/cardsense/internal/common"
)

// retryingClient decorates a Client with retry-on-failure. The matchers
// themselves are single-attempt; wrapping the client is how a caller
// (batch jobs, mostly) opts into a retry policy.
type retryingClient struct {
	inner Client
	opts  common.RetryOptions
}

// NewRetryingClient wraps a classifier client with retry behavior.
// ErrNoMatch is a definitive answer and is never retried.
func NewRetryingClient(inner Client, opts common.RetryOptions) Client {
	return &retryingClient{inner: inner, opts: opts}
}

func (c *retryingClient) ClassifyMerchant(ctx context.Context, userID, merchantName string) (Result, error) {
	var result Result

	err := common.WithRetry(ctx, func() error {
		var callErr error
		result, callErr = c.inner.ClassifyMerchant(ctx, userID, merchantName)
		if errors.Is(callErr, ErrNoMatch) {
			return &common.RetryableError{Err: callErr, Retryable: false}
		}
		return callErr
	}, c.opts)

	if err != nil {
		var retryableErr *common.RetryableError
		if errors.As(err, &retryableErr) {
			return Result{}, retryableErr.Err
		}
		return Result{}, err
	}

	return result, nil
}
