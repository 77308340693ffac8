// Package service defines the interfaces for the application's services.
package service

import (
	"context"

	"github.com/linusng/cardsense/internal/model"
)

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Portfolio operations.
	SaveCard(ctx context.Context, card *model.Card) error
	GetCard(ctx context.Context, userID, cardID string) (*model.Card, error)
	GetUserCards(ctx context.Context, userID string) ([]model.Card, error)
	DeleteCard(ctx context.Context, userID, cardID string) error

	// Card name mapping operations.
	GetCardMapping(ctx context.Context, userID, walletName string) (*model.CardNameMapping, error)
	SaveCardMapping(ctx context.Context, mapping *model.CardNameMapping) error
	GetUserCardMappings(ctx context.Context, userID string) ([]model.CardNameMapping, error)
	DeleteCardMapping(ctx context.Context, userID, walletName string) error
	IncrementCardMappingUseCount(ctx context.Context, userID, walletName string) error

	// Merchant override operations.
	GetMerchantOverride(ctx context.Context, userID, merchantName string) (*model.MerchantOverride, error)
	SaveMerchantOverride(ctx context.Context, override *model.MerchantOverride) error
	GetUserMerchantOverrides(ctx context.Context, userID string) ([]model.MerchantOverride, error)
	DeleteMerchantOverride(ctx context.Context, userID, pattern string) error
	IncrementMerchantOverrideUseCount(ctx context.Context, userID, pattern string) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
