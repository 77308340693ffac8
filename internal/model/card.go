// Package model defines the core domain models used throughout the application.
package model

import "time"

// Card represents a single card in a user's portfolio.
type Card struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Bank      string    `json:"bank"`
	Name      string    `json:"name"`
}

// DisplayName returns the bank-qualified name used for fuzzy comparison
// against wallet-displayed card names.
func (c *Card) DisplayName() string {
	if c.Bank == "" {
		return c.Name
	}
	return c.Bank + " " + c.Name
}

// CardNameMapping is a user-confirmed association between a wallet-displayed
// card name and a portfolio card. Once saved it is always preferred over
// fuzzy matching for that exact wallet name.
type CardNameMapping struct {
	LastUpdated time.Time `json:"last_updated"`
	UserID      string    `json:"user_id"`
	WalletName  string    `json:"wallet_name"`
	CardID      string    `json:"card_id"`
	CardName    string    `json:"card_name"`
	Confidence  float64   `json:"confidence"`
	UseCount    int       `json:"use_count"`
}

// MerchantOverride associates a merchant name pattern with a spending
// category for a single user. Saved when the user corrects an automatic
// classification.
type MerchantOverride struct {
	LastUpdated time.Time  `json:"last_updated"`
	UserID      string     `json:"user_id"`
	Pattern     string     `json:"pattern"`
	CategoryID  CategoryID `json:"category_id"`
	UseCount    int        `json:"use_count"`
}
