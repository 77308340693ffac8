package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/model"
)

// SaveCard inserts or updates a portfolio card.
func (s *SQLiteStorage) SaveCard(ctx context.Context, card *model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCard(card); err != nil {
		return err
	}

	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (id, user_id, bank, name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			bank = excluded.bank,
			name = excluded.name
	`, card.ID, card.UserID, card.Bank, card.Name, card.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}

	return nil
}

// GetCard retrieves a single card owned by the user.
func (s *SQLiteStorage) GetCard(ctx context.Context, userID, cardID string) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(cardID, "cardID"); err != nil {
		return nil, err
	}

	var card model.Card
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, bank, name, created_at
		FROM cards
		WHERE user_id = ? AND id = ?
	`, userID, cardID).Scan(&card.ID, &card.UserID, &card.Bank, &card.Name, &card.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return &card, nil
}

// GetUserCards retrieves all cards in a user's portfolio.
func (s *SQLiteStorage) GetUserCards(ctx context.Context, userID string) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, bank, name, created_at
		FROM cards
		WHERE user_id = ?
		ORDER BY bank, name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.Card
	for rows.Next() {
		var card model.Card
		if err := rows.Scan(&card.ID, &card.UserID, &card.Bank, &card.Name, &card.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// DeleteCard removes a card and any mappings pointing at it.
func (s *SQLiteStorage) DeleteCard(ctx context.Context, userID, cardID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(cardID, "cardID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM cards WHERE user_id = ? AND id = ?
	`, userID, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	// Mappings pointing at a removed card are stale; drop them too.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM card_name_mappings WHERE user_id = ? AND card_id = ?
	`, userID, cardID); err != nil {
		return fmt.Errorf("failed to delete card mappings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.cacheMutex.Lock()
	s.mappingCache = make(map[string]*model.CardNameMapping)
	s.cacheMutex.Unlock()

	return nil
}
