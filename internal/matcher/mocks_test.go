package matcher

import (
	"context"
	"errors"

	"github.com/linusng/cardsense/internal/classify"
	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/model"
)

// mockCardStore is an in-memory CardStore with injectable failures.
type mockCardStore struct {
	mappings       map[string]*model.CardNameMapping
	cards          []model.Card
	mappingErr     error
	cardsErr       error
	saveErr        error
	incrementCalls int
}

func newMockCardStore() *mockCardStore {
	return &mockCardStore{mappings: make(map[string]*model.CardNameMapping)}
}

func (s *mockCardStore) GetCardMapping(_ context.Context, userID, walletName string) (*model.CardNameMapping, error) {
	if s.mappingErr != nil {
		return nil, s.mappingErr
	}
	if mapping, ok := s.mappings[userID+"/"+walletName]; ok {
		return mapping, nil
	}
	return nil, common.ErrNotFound
}

func (s *mockCardStore) SaveCardMapping(_ context.Context, mapping *model.CardNameMapping) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mappings[mapping.UserID+"/"+mapping.WalletName] = mapping
	return nil
}

func (s *mockCardStore) GetUserCardMappings(_ context.Context, userID string) ([]model.CardNameMapping, error) {
	var out []model.CardNameMapping
	for _, m := range s.mappings {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *mockCardStore) IncrementCardMappingUseCount(_ context.Context, _, _ string) error {
	s.incrementCalls++
	return nil
}

func (s *mockCardStore) GetUserCards(_ context.Context, _ string) ([]model.Card, error) {
	if s.cardsErr != nil {
		return nil, s.cardsErr
	}
	return s.cards, nil
}

// mockClassifier returns a fixed result or error.
type mockClassifier struct {
	result classify.Result
	err    error
	calls  int
}

func (c *mockClassifier) ClassifyMerchant(_ context.Context, _, _ string) (classify.Result, error) {
	c.calls++
	if c.err != nil {
		return classify.Result{}, c.err
	}
	return c.result, nil
}

// mockOverrideStore is an in-memory OverrideStore.
type mockOverrideStore struct {
	overrides map[string]*model.MerchantOverride
	saveErr   error
}

func newMockOverrideStore() *mockOverrideStore {
	return &mockOverrideStore{overrides: make(map[string]*model.MerchantOverride)}
}

func (s *mockOverrideStore) SaveMerchantOverride(_ context.Context, override *model.MerchantOverride) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.overrides[override.UserID+"/"+override.Pattern] = override
	return nil
}

func (s *mockOverrideStore) GetUserMerchantOverrides(_ context.Context, userID string) ([]model.MerchantOverride, error) {
	var out []model.MerchantOverride
	for _, o := range s.overrides {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

var errStorageDown = errors.New("storage down")
