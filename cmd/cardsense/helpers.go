package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/linusng/cardsense/internal/classify"
	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/config"
	"github.com/linusng/cardsense/internal/keyword"
	"github.com/linusng/cardsense/internal/matcher"
	"github.com/linusng/cardsense/internal/storage"
)

// initStorage opens the database at the configured path and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// currentUser resolves the user id from flags or config.
func currentUser() (string, error) {
	user := viper.GetString("user")
	if user == "" {
		return "", common.NewUserError("no user configured; pass --user or set 'user' in config", common.ErrMissingConfig)
	}
	return user, nil
}

// newKeywordMatcher builds the local keyword matcher, honoring a custom
// rules file when configured.
func newKeywordMatcher() (*keyword.Matcher, error) {
	rulesPath := viper.GetString("matching.rules_file")
	if rulesPath == "" {
		return keyword.NewMatcher(keyword.DefaultRules()), nil
	}

	rules, err := keyword.LoadRules(config.ExpandPath(rulesPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword rules: %w", err)
	}
	return keyword.NewMatcher(rules), nil
}

// newClassifier builds the authoritative classifier: the remote HTTP
// client when an endpoint is configured, otherwise the override table in
// local storage.
func newClassifier(store *storage.SQLiteStorage) (classify.Client, error) {
	baseURL := viper.GetString("classifier.base_url")
	if baseURL == "" {
		return classify.NewStoreClassifier(store), nil
	}

	return classify.NewHTTPClient(classify.Config{
		BaseURL: baseURL,
		APIKey:  viper.GetString("classifier.api_key"),
		Timeout: viper.GetDuration("classifier.timeout"),
	})
}

// newMerchantMatcher wires the full merchant matching pipeline.
func newMerchantMatcher(store *storage.SQLiteStorage) (*matcher.MerchantMatcher, error) {
	keywords, err := newKeywordMatcher()
	if err != nil {
		return nil, err
	}
	classifier, err := newClassifier(store)
	if err != nil {
		return nil, err
	}
	return matcher.NewMerchantMatcher(classifier, keywords, store), nil
}

// joinArgs joins positional args into a single name; wallet and merchant
// strings routinely contain spaces.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// retryOptions returns the retry policy for batch classifier calls.
func retryOptions() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}
