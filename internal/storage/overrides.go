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

// GetMerchantOverride retrieves the override whose pattern matches the
// merchant name. Exact pattern matches win; otherwise the longest stored
// pattern contained in the merchant name (case-insensitive) is returned.
// Returns common.ErrNotFound when nothing matches.
func (s *SQLiteStorage) GetMerchantOverride(ctx context.Context, userID, merchantName string) (*model.MerchantOverride, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(merchantName, "merchantName"); err != nil {
		return nil, err
	}

	var override model.MerchantOverride
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, pattern, category_id, last_updated, use_count
		FROM merchant_overrides
		WHERE user_id = ?
		  AND (pattern = ? COLLATE NOCASE OR instr(upper(?), upper(pattern)) > 0)
		ORDER BY length(pattern) DESC
		LIMIT 1
	`, userID, merchantName, merchantName).Scan(
		&override.UserID,
		&override.Pattern,
		&override.CategoryID,
		&override.LastUpdated,
		&override.UseCount,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant override: %w", err)
	}

	return &override, nil
}

// SaveMerchantOverride saves or overwrites the override for (user, pattern).
func (s *SQLiteStorage) SaveMerchantOverride(ctx context.Context, override *model.MerchantOverride) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOverride(override); err != nil {
		return err
	}

	if override.LastUpdated.IsZero() {
		override.LastUpdated = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merchant_overrides (user_id, pattern, category_id, last_updated, use_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, pattern) DO UPDATE SET
			category_id = excluded.category_id,
			last_updated = excluded.last_updated,
			use_count = excluded.use_count
	`, override.UserID, override.Pattern, string(override.CategoryID), override.LastUpdated, override.UseCount)

	if err != nil {
		return fmt.Errorf("failed to save merchant override: %w", err)
	}

	return nil
}

// GetUserMerchantOverrides retrieves all overrides for a user.
func (s *SQLiteStorage) GetUserMerchantOverrides(ctx context.Context, userID string) ([]model.MerchantOverride, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, pattern, category_id, last_updated, use_count
		FROM merchant_overrides
		WHERE user_id = ?
		ORDER BY pattern
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var overrides []model.MerchantOverride
	for rows.Next() {
		var override model.MerchantOverride
		err := rows.Scan(
			&override.UserID,
			&override.Pattern,
			&override.CategoryID,
			&override.LastUpdated,
			&override.UseCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan merchant override: %w", err)
		}
		overrides = append(overrides, override)
	}

	return overrides, rows.Err()
}

// DeleteMerchantOverride removes the override for (user, pattern).
func (s *SQLiteStorage) DeleteMerchantOverride(ctx context.Context, userID, pattern string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM merchant_overrides WHERE user_id = ? AND pattern = ?
	`, userID, pattern)
	if err != nil {
		return fmt.Errorf("failed to delete merchant override: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// IncrementMerchantOverrideUseCount bumps the hit counter for an override.
func (s *SQLiteStorage) IncrementMerchantOverrideUseCount(ctx context.Context, userID, pattern string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE merchant_overrides
		SET use_count = use_count + 1
		WHERE user_id = ? AND pattern = ?
	`, userID, pattern)
	if err != nil {
		return fmt.Errorf("failed to increment override use count: %w", err)
	}

	return nil
}
