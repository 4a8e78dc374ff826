// Package indexcache provides verse-embedding cache adapters.
// Clean Architecture: Adapters implementing ports.IndexCache.
// SQLite and Badger persist across restarts; Memory lives for the process.
package indexcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteCache implements ports.IndexCache with SQLite-based persistence.
type SQLiteCache struct {
	mu       sync.RWMutex
	db       *sql.DB
	dataPath string
}

// NewSQLiteCache creates a persistent cache in dataPath/index.db.
func NewSQLiteCache(dataPath string) (*SQLiteCache, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	// Ensure data directory exists
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataPath, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	cache := &SQLiteCache{
		db:       db,
		dataPath: dataPath,
	}

	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return cache, nil
}

// initSchema creates the necessary tables.
func (c *SQLiteCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS verse_index (
		cache_key TEXT PRIMARY KEY,
		verses INTEGER NOT NULL,
		dims INTEGER NOT NULL,
		vectors BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Load returns (nil, nil) when key is absent.
func (c *SQLiteCache) Load(ctx context.Context, key string) ([][]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var vectorsJSON []byte
	err := c.db.QueryRowContext(ctx, "SELECT vectors FROM verse_index WHERE cache_key = ?", key).Scan(&vectorsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	var vectors [][]float32
	if err := json.Unmarshal(vectorsJSON, &vectors); err != nil {
		return nil, fmt.Errorf("decoding vectors: %w", err)
	}
	return vectors, nil
}

// Save replaces the entry for key.
func (c *SQLiteCache) Save(ctx context.Context, key string, vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	vectorsJSON, err := json.Marshal(vectors)
	if err != nil {
		return fmt.Errorf("encoding vectors: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO verse_index (cache_key, verses, dims, vectors)
		VALUES (?, ?, ?, ?)
	`, key, len(vectors), len(vectors[0]), vectorsJSON)
	if err != nil {
		return fmt.Errorf("storing index: %w", err)
	}
	return nil
}

// Clear removes every cached index.
func (c *SQLiteCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx, "DELETE FROM verse_index")
	return err
}

// EntryCount returns the number of cached indexes.
func (c *SQLiteCache) EntryCount(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM verse_index").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
