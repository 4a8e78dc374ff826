// Package usecases - manager.go keeps the registry of live chat sessions.
package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
	"github.com/0xcro3dile/versebot/internal/domain/ports"
	"github.com/0xcro3dile/versebot/internal/domain/selection"
)

// Manager creates, tracks and expires sessions. Sessions share nothing but
// the immutable corpus they were created with and the embedding port.
type Manager struct {
	embedder ports.EmbeddingService
	warmer   *Warmer
	cfg      SessionConfig
	idleTTL  time.Duration
	logger   *zap.Logger
	recorder ports.Recorder

	baseCtx context.Context
	cancel  context.CancelFunc

	mu            sync.RWMutex
	corpus        selection.Corpus
	corpusOffline bool
	sessions      map[string]*Session
}

// ManagerOptions carries the collaborators shared by every session.
type ManagerOptions struct {
	Corpus        selection.Corpus
	CorpusOffline bool
	Embedder      ports.EmbeddingService // nil disables semantic replies
	Cache         ports.IndexCache
	Config        SessionConfig
	IdleTTL       time.Duration // 0 keeps sessions until closed
	Logger        *zap.Logger
	Recorder      ports.Recorder
}

// NewManager creates an empty registry.
func NewManager(opts ManagerOptions) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = ports.NopRecorder{}
	}
	if opts.Corpus.Len() == 0 {
		opts.Corpus = selection.DefaultCorpus()
		opts.CorpusOffline = true
	}

	var warmer *Warmer
	if opts.Embedder != nil {
		warmer = NewWarmer(opts.Embedder, opts.Cache, opts.Logger, opts.Recorder)
	}

	ctx, cancel := context.WithCancel(context.Background())
	opts.Recorder.CorpusLoaded(opts.Corpus.Len(), opts.CorpusOffline)
	return &Manager{
		embedder:      opts.Embedder,
		warmer:        warmer,
		cfg:           opts.Config,
		idleTTL:       opts.IdleTTL,
		logger:        opts.Logger,
		recorder:      opts.Recorder,
		baseCtx:       ctx,
		cancel:        cancel,
		corpus:        opts.Corpus,
		corpusOffline: opts.CorpusOffline,
		sessions:      make(map[string]*Session),
	}
}

// Create starts a new session over the current corpus. Warm-up runs in the
// background and outlives the caller's request.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	s := NewSession(SessionOptions{
		ID:            uuid.NewString(),
		Corpus:        m.corpus,
		CorpusOffline: m.corpusOffline,
		Embedder:      m.embedder,
		Warmer:        m.warmer,
		Config:        m.cfg,
		Logger:        m.logger,
		Recorder:      m.recorder,
	})
	m.sessions[s.ID()] = s
	n := len(m.sessions)
	m.mu.Unlock()

	s.Start(m.baseCtx)
	m.recorder.SessionsActive(n)
	m.logger.Info("session created", zap.String("session", s.ID()), zap.Int("verses", s.Corpus().Len()))
	return s
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return s, nil
}

// Close ends a session and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return entities.ErrSessionNotFound
	}

	s.Close()
	m.recorder.SessionsActive(n)
	m.logger.Info("session closed", zap.String("session", id))
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SetCorpus replaces the corpus used by sessions created from now on.
// Existing sessions keep theirs.
func (m *Manager) SetCorpus(corpus selection.Corpus, offline bool) {
	m.mu.Lock()
	m.corpus = corpus
	m.corpusOffline = offline
	m.mu.Unlock()
	m.recorder.CorpusLoaded(corpus.Len(), offline)
	m.logger.Info("corpus replaced for new sessions", zap.Int("verses", corpus.Len()), zap.Bool("default", offline))
}

// Reload reads the source again and swaps the corpus for new sessions.
// A failed load keeps the current corpus.
func (m *Manager) Reload(ctx context.Context, source ports.CorpusSource) error {
	corpus, err := LoadCorpus(ctx, source, m.logger)
	if err != nil {
		return err
	}
	m.SetCorpus(corpus, false)
	return nil
}

// EvictIdle closes sessions inactive since before now-IdleTTL and returns
// how many were closed.
func (m *Manager) EvictIdle(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.idleTTL)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		m.recorder.SessionsActive(n)
		m.logger.Info("evicted idle sessions", zap.Int("evicted", len(stale)), zap.Int("active", n))
	}
	return len(stale)
}

// RunJanitor evicts idle sessions every interval until ctx ends.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.EvictIdle(now)
		}
	}
}

// Shutdown closes every session and stops pending warm-ups.
func (m *Manager) Shutdown() {
	m.cancel()
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.recorder.SessionsActive(0)
}
