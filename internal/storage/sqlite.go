// Package storage provides the data persistence layer for cardsense.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/linusng/cardsense/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// queryable abstracts *sql.DB and *sql.Tx so query helpers work in both.
type queryable interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	cacheExpiry  time.Time
	db           *sql.DB
	mappingCache map[string]*model.CardNameMapping
	dbPath       string
	cacheMutex   sync.RWMutex
}

const mappingCacheTTL = 5 * time.Minute

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:           db,
		dbPath:       dbPath,
		mappingCache: make(map[string]*model.CardNameMapping),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// mappingCacheKey builds a cache key for a (user, wallet name) pair.
func mappingCacheKey(userID, walletName string) string {
	return userID + "\x00" + walletName
}

// getCachedMapping retrieves a card name mapping from the cache.
func (s *SQLiteStorage) getCachedMapping(userID, walletName string) *model.CardNameMapping {
	s.cacheMutex.RLock()

	if time.Now().After(s.cacheExpiry) {
		s.cacheMutex.RUnlock()
		s.cacheMutex.Lock()
		defer s.cacheMutex.Unlock()

		// Double-check after acquiring write lock
		if time.Now().After(s.cacheExpiry) {
			s.mappingCache = make(map[string]*model.CardNameMapping)
		}
		return nil
	}

	mapping := s.mappingCache[mappingCacheKey(userID, walletName)]
	s.cacheMutex.RUnlock()
	return mapping
}

// cacheMapping adds a card name mapping to the cache.
func (s *SQLiteStorage) cacheMapping(mapping *model.CardNameMapping) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	if len(s.mappingCache) == 0 {
		s.cacheExpiry = time.Now().Add(mappingCacheTTL)
	}
	s.mappingCache[mappingCacheKey(mapping.UserID, mapping.WalletName)] = mapping
}

// evictMapping removes a card name mapping from the cache.
func (s *SQLiteStorage) evictMapping(userID, walletName string) {
	s.cacheMutex.Lock()
	delete(s.mappingCache, mappingCacheKey(userID, walletName))
	s.cacheMutex.Unlock()
}
