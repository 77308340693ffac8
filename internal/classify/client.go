// Package classify provides clients for the authoritative merchant
// classification service. The merchant matcher consults a Client first and
// only falls back to local keyword matching when the client errors or
// returns no row.
package classify

import (
	"context"
	"errors"

	"github.com/linusng/cardsense/internal/model"
)

// ErrNoMatch indicates the classifier has no row for the merchant. Callers
// treat it identically to a transport failure: fall back locally.
var ErrNoMatch = errors.New("no classification found")

// Result is a single classification row from the authoritative source.
type Result struct {
	CategoryID model.CategoryID
	Source     model.MerchantMatchSource
	Confidence float64
}

// Client classifies merchant strings for a specific user, consulting
// user-specific overrides and whatever merchant database the backing
// service maintains.
type Client interface {
	ClassifyMerchant(ctx context.Context, userID, merchantName string) (Result, error)
}
