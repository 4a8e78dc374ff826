package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/0xcro3dile/versebot/internal/adapters/indexcache"
	"github.com/0xcro3dile/versebot/internal/adapters/loader"
	"github.com/0xcro3dile/versebot/internal/config"
	"github.com/0xcro3dile/versebot/internal/domain/selection"
	"github.com/0xcro3dile/versebot/internal/domain/usecases"
)

func testConfig(t *testing.T, verses string) config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "frasi.txt")
	require.NoError(t, os.WriteFile(path, []byte(verses), 0644))

	c := config.Default()
	c.Corpus.Source = path
	c.Embedding.Provider = "hashing"
	c.Embedding.Dims = 64
	c.Cache.Backend = "sqlite"
	c.Cache.Dir = filepath.Join(dir, "cache")
	c.Reply.ThinkMin, c.Reply.ThinkMax = 0, 0
	return c
}

func TestChatLoop(t *testing.T) {
	c := testConfig(t, "il mare calmo\nla luna piena\n")
	a, err := newApp(context.Background(), c, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	manager := a.newManager(context.Background(), c, zap.NewNop())
	defer manager.Shutdown()
	session := manager.Create()
	<-session.WarmupDone()

	var out bytes.Buffer
	in := strings.NewReader("portami al mare\n\n")
	require.NoError(t, chatLoop(context.Background(), session, in, &out))

	assert.Contains(t, out.String(), "[online]")
	assert.Contains(t, out.String(), "il mare calmo\n")
	assert.Len(t, session.History(), 2, "blank lines are skipped")
}

func TestNewApp_Wiring(t *testing.T) {
	c := testConfig(t, "uno\n")
	a, err := newApp(context.Background(), c, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "hashing:64", a.embedder.Name())
	assert.IsType(t, &indexcache.SQLiteCache{}, a.cache)
	assert.IsType(t, &loader.FileSource{}, a.source)

	c.Corpus.Source = "https://example.org/frasi.txt"
	assert.IsType(t, &loader.HTTPSource{}, newSource(c.Corpus))
}

func TestNewEmbedder_None(t *testing.T) {
	embedder, err := newEmbedder(context.Background(), config.EmbeddingConfig{Provider: "none"}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, embedder)
}

func TestRunIndex_PersistsIndex(t *testing.T) {
	c := testConfig(t, "uno\ndue\ntre\n")
	cfg, logger = c, zap.NewNop()

	var out bytes.Buffer
	indexCmd.SetOut(&out)
	indexCmd.SetContext(context.Background())
	require.NoError(t, runIndex(indexCmd, nil))
	assert.Contains(t, out.String(), "indexing 3/3")

	cache, err := indexcache.NewSQLiteCache(c.Cache.Dir)
	require.NoError(t, err)
	defer cache.Close()

	corpus := selection.NewCorpus([]string{"uno", "due", "tre"})
	vectors, err := cache.Load(context.Background(), usecases.CacheKey(corpus, "hashing:64"))
	require.NoError(t, err)
	assert.Len(t, vectors, 3)
}

func TestWatchCorpus_ReloadsForNewSessions(t *testing.T) {
	c := testConfig(t, "vecchio\n")
	logger = zap.NewNop()
	source := loader.NewFileSource(c.Corpus.Source)
	corpus, err := usecases.LoadCorpus(context.Background(), source, logger)
	require.NoError(t, err)

	manager := usecases.NewManager(usecases.ManagerOptions{Corpus: corpus})
	defer manager.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchCorpus(ctx, manager, source, c.Corpus.Source) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(c.Corpus.Source, []byte("nuovo\n"), 0644)
		s := manager.Create()
		defer manager.Close(s.ID())
		return s.Corpus().At(0) == "nuovo"
	}, 3*time.Second, 100*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
