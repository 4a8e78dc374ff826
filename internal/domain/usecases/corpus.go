package usecases

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
	"github.com/0xcro3dile/versebot/internal/domain/ports"
	"github.com/0xcro3dile/versebot/internal/domain/selection"
)

// LoadCorpus reads and deduplicates the verse file. On failure, or when the
// file holds no verses, it returns the built-in corpus together with an
// error wrapping entities.ErrCorpusLoad. The returned corpus is always usable.
func LoadCorpus(ctx context.Context, source ports.CorpusSource, logger *zap.Logger) (selection.Corpus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if source == nil {
		return selection.DefaultCorpus(), fmt.Errorf("%w: no source configured", entities.ErrCorpusLoad)
	}

	raw, err := source.Load(ctx)
	if err != nil {
		logger.Warn("verse source unavailable, using default verse",
			zap.String("source", source.Describe()), zap.Error(err))
		return selection.DefaultCorpus(), fmt.Errorf("%w: %w", entities.ErrCorpusLoad, err)
	}

	lines := selection.ParseCorpus(raw)
	if len(lines) == 0 {
		logger.Warn("verse source is empty, using default verse", zap.String("source", source.Describe()))
		return selection.DefaultCorpus(), fmt.Errorf("%w: %s has no verses", entities.ErrCorpusLoad, source.Describe())
	}

	corpus := selection.NewCorpus(lines)
	logger.Info("verses loaded", zap.String("source", source.Describe()), zap.Int("verses", corpus.Len()))
	return corpus, nil
}
