package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/0xcro3dile/versebot/internal/adapters/filewatcher"
	"github.com/0xcro3dile/versebot/internal/adapters/loader"
	"github.com/0xcro3dile/versebot/internal/domain/ports"
	"github.com/0xcro3dile/versebot/internal/domain/usecases"
	httpserver "github.com/0xcro3dile/versebot/internal/infrastructure/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat HTTP service",
	Long: `Serves the chat widget on / and the JSON API under /api.

With corpus.watch enabled the verse file is watched and reloaded; sessions
opened after a change use the new verses, open sessions keep theirs.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	manager := a.newManager(ctx, cfg, logger)
	defer manager.Shutdown()

	server := httpserver.NewServer(manager, a.registry, logger, cfg.Server.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	if cfg.Server.SessionTTL > 0 && cfg.Server.JanitorInterval > 0 {
		g.Go(func() error {
			manager.RunJanitor(gctx, cfg.Server.JanitorInterval)
			return nil
		})
	}
	if cfg.Corpus.Watch {
		if loader.IsRemote(cfg.Corpus.Source) {
			logger.Warn("corpus.watch ignored for remote sources", zap.String("source", cfg.Corpus.Source))
		} else {
			g.Go(func() error {
				return watchCorpus(gctx, manager, a.source, cfg.Corpus.Source)
			})
		}
	}

	return g.Wait()
}

// watchCorpus reloads the verse file for new sessions whenever it changes.
func watchCorpus(ctx context.Context, manager *usecases.Manager, source ports.CorpusSource, path string) error {
	watcher, err := filewatcher.NewFSNotifyWatcher(logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, path)
	if err != nil {
		return err
	}
	logger.Info("watching verse file", zap.String("path", path))

	for event := range events {
		if event.Operation == ports.FileDeleted {
			logger.Warn("verse file removed, keeping current verses", zap.String("path", event.Path))
			continue
		}
		if err := manager.Reload(ctx, source); err != nil {
			logger.Warn("verse reload failed, keeping current verses", zap.Error(err))
			continue
		}
		logger.Info("verses reloaded", zap.String("path", event.Path), zap.String("op", event.Operation.String()))
	}
	return nil
}
