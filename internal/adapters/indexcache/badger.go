package indexcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// DefaultTTL is how long a badger cache entry lives when no TTL is given.
const DefaultTTL = 7 * 24 * time.Hour

const badgerKeyPrefix = "versebot/emb/v1/"

// BadgerCache implements ports.IndexCache on an embedded BadgerDB.
// Entries expire after the configured TTL; an expired entry is a miss.
type BadgerCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *zap.Logger
}

// cacheEntry is the msgpack value stored under each key.
type cacheEntry struct {
	Dims    int         `msgpack:"d"`
	Vectors [][]float32 `msgpack:"v"`
	SavedAt time.Time   `msgpack:"t"`
}

// NewBadgerCache opens (or creates) a cache in dir. An empty dir opens an
// in-memory database, which is what tests use.
func NewBadgerCache(dir string, ttl time.Duration, logger *zap.Logger) (*BadgerCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	opts = opts.WithLogger(badgerLogger{logger.Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger cache: %w", err)
	}
	return &BadgerCache{db: db, ttl: ttl, logger: logger}, nil
}

// Load returns (nil, nil) on a miss or an expired entry.
func (c *BadgerCache) Load(ctx context.Context, key string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger cache load: %w", err)
	}

	var entry cacheEntry
	if err := msgpack.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("badger cache decode: %w", err)
	}
	return entry.Vectors, nil
}

// Save stores vectors under key with the cache TTL.
func (c *BadgerCache) Save(ctx context.Context, key string, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(vectors) == 0 {
		return nil
	}

	raw, err := msgpack.Marshal(cacheEntry{
		Dims:    len(vectors[0]),
		Vectors: vectors,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("badger cache encode: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(badgerKey(key), raw).WithTTL(c.ttl))
	})
	if err != nil {
		return fmt.Errorf("badger cache save: %w", err)
	}
	c.logger.Debug("index cached", zap.Int("verses", len(vectors)), zap.Duration("ttl", c.ttl))
	return nil
}

// Close releases the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

func badgerKey(key string) []byte {
	return []byte(badgerKeyPrefix + key)
}

// badgerLogger routes badger's internal logging through zap.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.s.Errorf(f, v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.s.Warnf(f, v...) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.s.Debugf(f, v...) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.s.Debugf(f, v...) }
