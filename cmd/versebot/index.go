package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xcro3dile/versebot/internal/domain/usecases"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the verse file once and store the result in the cache",
	Long: `Builds the verse index the same way a session warm-up does and persists it,
so the first sessions after a deploy start in semantic mode immediately.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.embedder == nil {
		return errors.New("embedding provider is none, nothing to index")
	}
	if a.cache == nil {
		return fmt.Errorf("cache backend %q cannot persist an index", cfg.Cache.Backend)
	}

	corpus, offline := a.loadCorpus(ctx, logger)
	if offline {
		return fmt.Errorf("verse source %s could not be read", a.source.Describe())
	}

	out := cmd.OutOrStdout()
	start := time.Now()
	warmer := usecases.NewWarmer(a.embedder, a.cache, logger, a.recorder)
	index, err := warmer.Warm(ctx, corpus, func(done, total int) {
		fmt.Fprintf(out, "\rindexing %d/%d", done, total)
	})
	fmt.Fprintln(out)
	if err != nil {
		return err
	}

	logger.Info("index stored",
		zap.String("embedder", a.embedder.Name()),
		zap.String("key", usecases.CacheKey(corpus, a.embedder.Name())),
		zap.Int("verses", index.Len()),
		zap.Int("dims", index.Dim()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
