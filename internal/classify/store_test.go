package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/model"
)

type mockOverrideReader struct {
	override  *model.MerchantOverride
	err       error
	incCalls  int
	incFailed bool
}

func (m *mockOverrideReader) GetMerchantOverride(_ context.Context, _, _ string) (*model.MerchantOverride, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.override, nil
}

func (m *mockOverrideReader) IncrementMerchantOverrideUseCount(_ context.Context, _, _ string) error {
	m.incCalls++
	if m.incFailed {
		return errors.New("increment failed")
	}
	return nil
}

func TestStoreClassifier_Hit(t *testing.T) {
	reader := &mockOverrideReader{
		override: &model.MerchantOverride{
			UserID: "user-1", Pattern: "KOPITIAM", CategoryID: model.CategoryDining,
		},
	}
	client := NewStoreClassifier(reader)

	got, err := client.ClassifyMerchant(context.Background(), "user-1", "BEDOK KOPITIAM")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryDining, got.CategoryID)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, model.MerchantSourceOverride, got.Source)
	assert.Equal(t, 1, reader.incCalls)
}

func TestStoreClassifier_NotFound(t *testing.T) {
	reader := &mockOverrideReader{err: common.ErrNotFound}
	client := NewStoreClassifier(reader)

	_, err := client.ClassifyMerchant(context.Background(), "user-1", "ANY")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestStoreClassifier_StorageErrorPropagates(t *testing.T) {
	reader := &mockOverrideReader{err: errors.New("db locked")}
	client := NewStoreClassifier(reader)

	_, err := client.ClassifyMerchant(context.Background(), "user-1", "ANY")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch)
}

func TestStoreClassifier_IncrementFailureIgnored(t *testing.T) {
	reader := &mockOverrideReader{
		override:  &model.MerchantOverride{UserID: "user-1", Pattern: "X", CategoryID: model.CategoryBills},
		incFailed: true,
	}
	client := NewStoreClassifier(reader)

	got, err := client.ClassifyMerchant(context.Background(), "user-1", "X")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryBills, got.CategoryID)
}
