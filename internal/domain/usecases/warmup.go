// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate the selection policies and depend on
// port interfaces. They contain NO framework code beyond structured logging.
package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
	"github.com/0xcro3dile/versebot/internal/domain/ports"
	"github.com/0xcro3dile/versebot/internal/domain/selection"
)

// ProgressFunc is called after each verse is embedded during warm-up.
type ProgressFunc func(done, total int)

// Warmer builds the embedding index for a corpus.
// Single Responsibility: Only index construction, no reply logic.
type Warmer struct {
	embedder ports.EmbeddingService
	cache    ports.IndexCache
	logger   *zap.Logger
	recorder ports.Recorder
}

// NewWarmer creates a Warmer with injected dependencies. cache may be nil,
// in which case every warm-up embeds the whole corpus.
func NewWarmer(
	embedder ports.EmbeddingService,
	cache ports.IndexCache,
	logger *zap.Logger,
	recorder ports.Recorder,
) *Warmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &Warmer{
		embedder: embedder,
		cache:    cache,
		logger:   logger,
		recorder: recorder,
	}
}

// Warm returns one unit vector per verse, aligned with corpus order.
//
// Verses are embedded one at a time in index order so progress can be
// reported. Any failure discards the partial index and returns an error
// wrapping entities.ErrEmbeddingInit; there is no retry.
func (w *Warmer) Warm(ctx context.Context, corpus selection.Corpus, progress ProgressFunc) (selection.EmbeddingIndex, error) {
	start := time.Now()
	index, cached, err := w.warm(ctx, corpus, progress)

	outcome := "embedded"
	switch {
	case err != nil:
		outcome = "failed"
		w.recorder.EmbeddingFailed("warmup")
		w.logger.Warn("warm-up failed, semantic replies disabled for this session",
			zap.String("embedder", w.embedder.Name()), zap.Error(err))
	case cached:
		outcome = "cached"
	}
	w.recorder.WarmupFinished(outcome, time.Since(start))
	if err != nil {
		return selection.EmbeddingIndex{}, err
	}

	w.logger.Info("warm-up complete",
		zap.String("outcome", outcome),
		zap.Int("verses", index.Len()),
		zap.Int("dims", index.Dim()),
		zap.Duration("elapsed", time.Since(start)))
	return index, nil
}

func (w *Warmer) warm(ctx context.Context, corpus selection.Corpus, progress ProgressFunc) (selection.EmbeddingIndex, bool, error) {
	// 1. Initialize the model
	if initer, ok := w.embedder.(ports.Initializer); ok {
		if err := initer.Init(ctx); err != nil {
			return selection.EmbeddingIndex{}, false, fmt.Errorf("%w: %w", entities.ErrEmbeddingInit, err)
		}
	}

	// 2. Try the cache
	key := CacheKey(corpus, w.embedder.Name())
	if index, ok := w.loadCached(ctx, key, corpus.Len()); ok {
		if progress != nil {
			progress(index.Len(), corpus.Len())
		}
		return index, true, nil
	}

	// 3. Embed sequentially
	var index selection.EmbeddingIndex
	total := corpus.Len()
	for i := 0; i < total; i++ {
		vec, err := w.embedder.Embed(ctx, corpus.At(i))
		if err == nil {
			err = index.Append(vec)
		}
		if err != nil {
			return selection.EmbeddingIndex{}, false, fmt.Errorf("%w: verse %d: %w", entities.ErrEmbeddingInit, i, err)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	// 4. Persist; failure only costs a recompute next time
	if w.cache != nil {
		if err := w.cache.Save(ctx, key, index.Raw()); err != nil {
			w.logger.Warn("failed to persist verse embeddings", zap.String("key", shortKey(key)), zap.Error(err))
		}
	}
	return index, false, nil
}

func (w *Warmer) loadCached(ctx context.Context, key string, want int) (selection.EmbeddingIndex, bool) {
	if w.cache == nil {
		return selection.EmbeddingIndex{}, false
	}
	raw, err := w.cache.Load(ctx, key)
	if err != nil {
		w.logger.Warn("index cache load failed, embedding verses", zap.String("key", shortKey(key)), zap.Error(err))
		return selection.EmbeddingIndex{}, false
	}
	if raw == nil {
		w.logger.Debug("index cache miss", zap.String("key", shortKey(key)))
		return selection.EmbeddingIndex{}, false
	}
	if len(raw) != want {
		w.logger.Warn("index cache entry has wrong length, ignoring",
			zap.Int("cached", len(raw)), zap.Int("verses", want))
		return selection.EmbeddingIndex{}, false
	}
	index, err := selection.NewEmbeddingIndex(raw)
	if err != nil {
		w.logger.Warn("index cache entry is corrupt, ignoring", zap.Error(err))
		return selection.EmbeddingIndex{}, false
	}
	w.logger.Debug("index cache hit", zap.String("key", shortKey(key)), zap.Int("verses", index.Len()))
	return index, true
}

// CacheKey hashes the verses in order together with the embedder name, so any
// change to either produces a new key.
func CacheKey(corpus selection.Corpus, embedder string) string {
	h := sha256.New()
	for i := 0; i < corpus.Len(); i++ {
		fmt.Fprintf(h, "%s\n", corpus.At(i))
	}
	fmt.Fprintf(h, "model=%s\n", embedder)
	return hex.EncodeToString(h.Sum(nil))
}

func shortKey(k string) string {
	if len(k) > 8 {
		return k[:8]
	}
	return k
}
