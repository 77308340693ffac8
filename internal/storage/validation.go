package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linusng/cardsense/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidCard     = errors.New("invalid card")
	ErrInvalidMapping  = errors.New("invalid card name mapping")
	ErrInvalidOverride = errors.New("invalid merchant override")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCard validates a portfolio card.
func validateCard(card *model.Card) error {
	if card == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if strings.TrimSpace(card.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCard)
	}
	if strings.TrimSpace(card.UserID) == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidCard)
	}
	if strings.TrimSpace(card.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCard)
	}
	return nil
}

// validateMapping validates a card name mapping.
func validateMapping(mapping *model.CardNameMapping) error {
	if mapping == nil {
		return fmt.Errorf("%w: mapping", ErrNilParameter)
	}
	if strings.TrimSpace(mapping.UserID) == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidMapping)
	}
	if strings.TrimSpace(mapping.WalletName) == "" {
		return fmt.Errorf("%w: missing wallet name", ErrInvalidMapping)
	}
	if strings.TrimSpace(mapping.CardID) == "" {
		return fmt.Errorf("%w: missing card ID", ErrInvalidMapping)
	}
	if mapping.Confidence < 0 || mapping.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidMapping)
	}
	return nil
}

// validateOverride validates a merchant override.
func validateOverride(override *model.MerchantOverride) error {
	if override == nil {
		return fmt.Errorf("%w: override", ErrNilParameter)
	}
	if strings.TrimSpace(override.UserID) == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidOverride)
	}
	if strings.TrimSpace(override.Pattern) == "" {
		return fmt.Errorf("%w: missing pattern", ErrInvalidOverride)
	}
	if !override.CategoryID.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidOverride, override.CategoryID)
	}
	return nil
}
