package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/0xcro3dile/versebot/internal/adapters/embedding"
	"github.com/0xcro3dile/versebot/internal/adapters/indexcache"
	"github.com/0xcro3dile/versebot/internal/adapters/loader"
	"github.com/0xcro3dile/versebot/internal/config"
	"github.com/0xcro3dile/versebot/internal/domain/ports"
	"github.com/0xcro3dile/versebot/internal/domain/selection"
	"github.com/0xcro3dile/versebot/internal/domain/usecases"
	"github.com/0xcro3dile/versebot/internal/metrics"
)

// app holds the adapters built from the configuration.
type app struct {
	source   ports.CorpusSource
	embedder ports.EmbeddingService
	cache    ports.IndexCache
	registry *prometheus.Registry
	recorder *metrics.Recorder
	closers  []io.Closer
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{
		source:   newSource(cfg.Corpus),
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.recorder = metrics.New(a.registry)

	var err error
	if a.embedder, err = newEmbedder(ctx, cfg.Embedding, logger); err != nil {
		return nil, err
	}
	if a.cache, err = a.newCache(cfg.Cache, logger); err != nil {
		logger.Warn("index cache unavailable, verses will be embedded on every warm-up",
			zap.String("backend", cfg.Cache.Backend), zap.Error(err))
	}
	return a, nil
}

func newSource(cfg config.CorpusConfig) ports.CorpusSource {
	if loader.IsRemote(cfg.Source) {
		return loader.NewHTTPSource(cfg.Source, cfg.Timeout)
	}
	return loader.NewFileSource(cfg.Source)
}

// newEmbedder returns nil for provider "none", which pins every session to
// random replies.
func newEmbedder(ctx context.Context, cfg config.EmbeddingConfig, logger *zap.Logger) (ports.EmbeddingService, error) {
	switch cfg.Provider {
	case "ollama":
		return embedding.NewOllamaAdapter(cfg.OllamaURL, cfg.Model, cfg.Timeout, logger), nil
	case "genai":
		model := cfg.Model
		if model == config.Default().Embedding.Model {
			model = ""
		}
		return embedding.NewGenAIAdapter(ctx, cfg.APIKey, model, cfg.TaskType)
	case "hashing":
		return embedding.NewHashingAdapter(cfg.Dims), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func (a *app) newCache(cfg config.CacheConfig, logger *zap.Logger) (ports.IndexCache, error) {
	switch cfg.Backend {
	case "memory":
		return indexcache.NewMemoryCache(), nil
	case "sqlite":
		c, err := indexcache.NewSQLiteCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c)
		return c, nil
	case "badger":
		c, err := indexcache.NewBadgerCache(cfg.Dir, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c)
		return c, nil
	default:
		return nil, nil
	}
}

func (a *app) loadCorpus(ctx context.Context, logger *zap.Logger) (selection.Corpus, bool) {
	corpus, err := usecases.LoadCorpus(ctx, a.source, logger)
	return corpus, err != nil
}

func (a *app) newManager(ctx context.Context, cfg config.Config, logger *zap.Logger) *usecases.Manager {
	corpus, offline := a.loadCorpus(ctx, logger)
	return usecases.NewManager(usecases.ManagerOptions{
		Corpus:        corpus,
		CorpusOffline: offline,
		Embedder:      a.embedder,
		Cache:         a.cache,
		Config:        sessionConfig(cfg.Reply),
		IdleTTL:       cfg.Server.SessionTTL,
		Logger:        logger,
		Recorder:      a.recorder,
	})
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func sessionConfig(cfg config.ReplyConfig) usecases.SessionConfig {
	return usecases.SessionConfig{
		Context: selection.ContextOptions{
			HistoryTurns: cfg.HistoryTurns,
			UserPrefix:   cfg.UserPrefix,
			BotPrefix:    cfg.BotPrefix,
		},
		RecencyLimit: cfg.RecencyLimit,
		ThinkMin:     cfg.ThinkMin,
		ThinkMax:     cfg.ThinkMax,
	}
}
