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

// GetCardMapping retrieves the verified mapping for an exact (user, wallet
// name) pair. Returns common.ErrNotFound when no mapping is stored.
func (s *SQLiteStorage) GetCardMapping(ctx context.Context, userID, walletName string) (*model.CardNameMapping, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(walletName, "walletName"); err != nil {
		return nil, err
	}

	if mapping := s.getCachedMapping(userID, walletName); mapping != nil {
		return mapping, nil
	}

	var mapping model.CardNameMapping
	err := s.db.QueryRowContext(ctx, `
		SELECT m.user_id, m.wallet_name, m.card_id, m.confidence, m.last_updated, m.use_count,
		       COALESCE(c.bank || ' ' || c.name, '')
		FROM card_name_mappings m
		LEFT JOIN cards c ON c.id = m.card_id
		WHERE m.user_id = ? AND m.wallet_name = ?
	`, userID, walletName).Scan(
		&mapping.UserID,
		&mapping.WalletName,
		&mapping.CardID,
		&mapping.Confidence,
		&mapping.LastUpdated,
		&mapping.UseCount,
		&mapping.CardName,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card mapping: %w", err)
	}

	s.cacheMapping(&mapping)

	return &mapping, nil
}

// SaveCardMapping saves or overwrites the mapping for (user, wallet name).
func (s *SQLiteStorage) SaveCardMapping(ctx context.Context, mapping *model.CardNameMapping) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMapping(mapping); err != nil {
		return err
	}

	if mapping.LastUpdated.IsZero() {
		mapping.LastUpdated = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The mapped card must exist and belong to the same user.
	var cardExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM cards WHERE id = ? AND user_id = ?)
	`, mapping.CardID, mapping.UserID).Scan(&cardExists)
	if err != nil {
		return fmt.Errorf("failed to check card existence: %w", err)
	}
	if !cardExists {
		return fmt.Errorf("card '%s' does not exist for user", mapping.CardID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO card_name_mappings (user_id, wallet_name, card_id, confidence, last_updated, use_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, wallet_name) DO UPDATE SET
			card_id = excluded.card_id,
			confidence = excluded.confidence,
			last_updated = excluded.last_updated,
			use_count = excluded.use_count
	`, mapping.UserID, mapping.WalletName, mapping.CardID, mapping.Confidence, mapping.LastUpdated, mapping.UseCount)

	if err != nil {
		return fmt.Errorf("failed to save card mapping: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	// The JOINed display name may have changed; refetch on next lookup.
	s.evictMapping(mapping.UserID, mapping.WalletName)

	return nil
}

// GetUserCardMappings retrieves all stored mappings for a user.
func (s *SQLiteStorage) GetUserCardMappings(ctx context.Context, userID string) ([]model.CardNameMapping, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.user_id, m.wallet_name, m.card_id, m.confidence, m.last_updated, m.use_count,
		       COALESCE(c.bank || ' ' || c.name, '')
		FROM card_name_mappings m
		LEFT JOIN cards c ON c.id = m.card_id
		WHERE m.user_id = ?
		ORDER BY m.wallet_name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query card mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []model.CardNameMapping
	for rows.Next() {
		var mapping model.CardNameMapping
		err := rows.Scan(
			&mapping.UserID,
			&mapping.WalletName,
			&mapping.CardID,
			&mapping.Confidence,
			&mapping.LastUpdated,
			&mapping.UseCount,
			&mapping.CardName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card mapping: %w", err)
		}
		mappings = append(mappings, mapping)
	}

	return mappings, rows.Err()
}

// DeleteCardMapping removes the mapping for (user, wallet name).
func (s *SQLiteStorage) DeleteCardMapping(ctx context.Context, userID, walletName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(walletName, "walletName"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM card_name_mappings WHERE user_id = ? AND wallet_name = ?
	`, userID, walletName)
	if err != nil {
		return fmt.Errorf("failed to delete card mapping: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	s.evictMapping(userID, walletName)

	return nil
}

// IncrementCardMappingUseCount bumps the hit counter for a mapping.
func (s *SQLiteStorage) IncrementCardMappingUseCount(ctx context.Context, userID, walletName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(walletName, "walletName"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE card_name_mappings
		SET use_count = use_count + 1
		WHERE user_id = ? AND wallet_name = ?
	`, userID, walletName)
	if err != nil {
		return fmt.Errorf("failed to increment mapping use count: %w", err)
	}

	s.evictMapping(userID, walletName)

	return nil
}
