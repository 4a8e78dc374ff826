// Package usecases - session.go owns one conversation and picks its replies.
package usecases

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
	"github.com/0xcro3dile/versebot/internal/domain/ports"
	"github.com/0xcro3dile/versebot/internal/domain/selection"
)

// IndexState is the session-wide readiness of the semantic path.
type IndexState int

const (
	StateUninitialized IndexState = iota
	StateIndexing
	StateReady
	StateDisabled
)

func (s IndexState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIndexing:
		return "indexing"
	case StateReady:
		return "ready"
	default:
		return "disabled"
	}
}

// SessionConfig tunes reply selection.
type SessionConfig struct {
	Context      selection.ContextOptions
	RecencyLimit int
	// ThinkMin and ThinkMax bound the uniform pause before every reply.
	// A zero ThinkMax disables the pause.
	ThinkMin time.Duration
	ThinkMax time.Duration
}

// DefaultSessionConfig returns the stock reply settings.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Context:      selection.DefaultContextOptions(),
		RecencyLimit: selection.DefaultRecencyLimit,
		ThinkMin:     380 * time.Millisecond,
		ThinkMax:     1230 * time.Millisecond,
	}
}

// Session is the selection engine of a single chat. It owns the conversation
// log, the semantic index, the recency window and the fallback deck.
//
// Replies are produced one at a time in submission order.
type Session struct {
	id            string
	corpus        selection.Corpus
	corpusOffline bool
	embedder      ports.EmbeddingService
	warmer        *Warmer
	cfg           SessionConfig
	logger        *zap.Logger
	recorder      ports.Recorder

	mu         sync.Mutex
	state      IndexState
	index      selection.EmbeddingIndex
	indexed    int
	log        selection.ConversationLog
	recency    *selection.RecencyGuard
	deck       *selection.Deck
	rng        *rand.Rand
	lastActive time.Time
	closed     bool
	cancelWarm context.CancelFunc

	// tail is closed when the most recently submitted reply is logged.
	tail     chan struct{}
	warmDone chan struct{}
	life     context.Context
	stopLife context.CancelFunc
}

// SessionOptions carries a session's collaborators. Embedder and Warmer may be
// nil, which pins the session to the fallback path.
type SessionOptions struct {
	ID            string
	Corpus        selection.Corpus
	CorpusOffline bool
	Embedder      ports.EmbeddingService
	Warmer        *Warmer
	Config        SessionConfig
	Logger        *zap.Logger
	Recorder      ports.Recorder
	Rand          *rand.Rand
}

// NewSession creates an idle session. Call Start to begin warm-up.
func NewSession(opts SessionOptions) *Session {
	if opts.Corpus.Len() == 0 {
		opts.Corpus = selection.DefaultCorpus()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = ports.NopRecorder{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	done := make(chan struct{})
	close(done)
	life, stopLife := context.WithCancel(context.Background())
	return &Session{
		id:            opts.ID,
		corpus:        opts.Corpus,
		corpusOffline: opts.CorpusOffline,
		embedder:      opts.Embedder,
		warmer:        opts.Warmer,
		cfg:           opts.Config,
		logger:        opts.Logger.With(zap.String("session", opts.ID)),
		recorder:      opts.Recorder,
		recency:       selection.NewRecencyGuard(opts.Config.RecencyLimit),
		deck:          selection.NewDeck(opts.Corpus.Len(), opts.Rand),
		rng:           opts.Rand,
		lastActive:    time.Now(),
		tail:          done,
		warmDone:      make(chan struct{}),
		life:          life,
		stopLife:      stopLife,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Corpus returns the session's verses.
func (s *Session) Corpus() selection.Corpus { return s.corpus }

// Start launches warm-up in the background. Replies submitted before it
// finishes use the fallback path. Start must be called at most once.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.embedder == nil || s.warmer == nil {
		s.state = StateDisabled
		s.mu.Unlock()
		close(s.warmDone)
		s.logger.Info("no embedding capability, replies are random")
		return
	}
	warmCtx, cancel := context.WithCancel(ctx)
	s.cancelWarm = cancel
	s.state = StateIndexing
	s.mu.Unlock()

	go s.runWarmup(warmCtx)
}

func (s *Session) runWarmup(ctx context.Context) {
	defer close(s.warmDone)

	index, err := s.warmer.Warm(ctx, s.corpus, func(done, total int) {
		s.mu.Lock()
		s.indexed = done
		s.mu.Unlock()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || index.Len() != s.corpus.Len() {
		s.state = StateDisabled
		return
	}
	s.index = index
	s.state = StateReady
}

// WarmupDone is closed once warm-up has succeeded or failed.
func (s *Session) WarmupDone() <-chan struct{} { return s.warmDone }

// State returns the current readiness of the semantic path.
func (s *Session) State() IndexState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status reports advisory progress for the UI.
func (s *Session) Status() entities.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := entities.Status{
		Indexed:       s.indexed,
		Total:         s.corpus.Len(),
		CorpusOffline: s.corpusOffline,
	}
	switch s.state {
	case StateUninitialized:
		st.Phase = entities.PhaseLoading
	case StateIndexing:
		st.Phase = entities.PhaseIndexing
	case StateReady:
		st.Phase = entities.PhaseOnline
	default:
		st.Phase = entities.PhaseOffline
	}
	return st
}

// History returns every turn so far, oldest first.
func (s *Session) History() []entities.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.All()
}

// LastActive returns when the session last accepted a message.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Submit records a user message and returns the verse chosen in reply.
//
// The user turn is logged immediately and takes the next place in the reply
// queue. If ctx ends while earlier replies are pending, the context error is
// returned and no bot turn is logged for it. Once its turn comes the reply
// runs to completion and is logged even if ctx ends during the thinking
// pause; Submit then returns the context error without waiting for it.
func (s *Session) Submit(ctx context.Context, text string) (entities.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entities.Reply{}, entities.ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return entities.Reply{}, entities.ErrSessionClosed
	}
	s.log.Append(text, entities.SenderUser)
	s.lastActive = time.Now()
	prev, turn := s.tail, make(chan struct{})
	s.tail = turn
	s.mu.Unlock()

	select {
	case <-prev:
	case <-ctx.Done():
		go func() {
			<-prev
			close(turn)
		}()
		return entities.Reply{}, ctx.Err()
	}

	result := make(chan submitResult, 1)
	go func() {
		defer close(turn)
		result <- s.replyInTurn(ctx, text)
	}()

	select {
	case r := <-result:
		return r.reply, r.err
	case <-ctx.Done():
		return entities.Reply{}, ctx.Err()
	}
}

type submitResult struct {
	reply entities.Reply
	err   error
}

// replyInTurn thinks and replies under a context that outlives the caller
// but ends when the session is closed.
func (s *Session) replyInTurn(ctx context.Context, text string) submitResult {
	replyCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(s.life, cancel)
	defer stop()

	if err := s.think(replyCtx); err != nil || s.life.Err() != nil {
		return submitResult{err: entities.ErrSessionClosed}
	}
	return submitResult{reply: s.Reply(replyCtx, text)}
}

// Reply selects a verse for message and logs it as a bot turn. It runs the
// semantic path when the index is ready and falls back to a random draw
// otherwise or when the query embedding fails. Reply never fails.
//
// Callers normally go through Submit, which logs the user turn first and
// serializes replies.
func (s *Session) Reply(ctx context.Context, message string) entities.Reply {
	reply := s.selectVerse(ctx, message)

	s.mu.Lock()
	s.log.Append(reply.Text, entities.SenderBot)
	s.mu.Unlock()

	s.recorder.ReplySelected(string(reply.Path))
	s.logger.Debug("reply selected",
		zap.String("path", string(reply.Path)),
		zap.Int("index", reply.Index))
	return reply
}

func (s *Session) selectVerse(ctx context.Context, message string) entities.Reply {
	s.mu.Lock()
	ready := s.state == StateReady && s.index.Len() == s.corpus.Len()
	index := s.index
	query := selection.BuildContext(message, s.log.Tail(s.cfg.Context.HistoryTurns), s.cfg.Context)
	s.mu.Unlock()

	if ready {
		reply, err := s.semanticReply(ctx, query, index)
		if err == nil {
			return reply
		}
		s.recorder.EmbeddingFailed("query")
		s.logger.Warn("semantic reply failed, drawing at random", zap.Error(err))
	}
	return s.fallbackReply()
}

func (s *Session) semanticReply(ctx context.Context, query string, index selection.EmbeddingIndex) (entities.Reply, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return entities.Reply{}, fmt.Errorf("%w: %w", entities.ErrEmbeddingCall, err)
	}
	unit, err := selection.Normalize(vec)
	if err != nil {
		return entities.Reply{}, fmt.Errorf("%w: %w", entities.ErrEmbeddingCall, err)
	}
	ranked, err := selection.Rank(unit, index)
	if err != nil {
		return entities.Reply{}, fmt.Errorf("%w: %w", entities.ErrEmbeddingCall, err)
	}

	s.mu.Lock()
	chosen, ok := s.recency.Select(ranked)
	s.mu.Unlock()
	if !ok {
		return entities.Reply{}, fmt.Errorf("%w: empty ranking", entities.ErrEmbeddingCall)
	}
	return entities.Reply{Text: s.corpus.At(chosen), Index: chosen, Path: entities.PathSemantic}, nil
}

func (s *Session) fallbackReply() entities.Reply {
	s.mu.Lock()
	chosen := s.deck.Draw()
	s.mu.Unlock()
	return entities.Reply{Text: s.corpus.At(chosen), Index: chosen, Path: entities.PathFallback}
}

// think pauses for a uniform duration in [ThinkMin, ThinkMax).
func (s *Session) think(ctx context.Context) error {
	if s.cfg.ThinkMax <= 0 {
		return nil
	}
	delay := s.cfg.ThinkMin
	if span := s.cfg.ThinkMax - s.cfg.ThinkMin; span > 0 {
		s.mu.Lock()
		delay += time.Duration(s.rng.Int63n(int64(span)))
		s.mu.Unlock()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops warm-up, waits for it to exit and rejects further messages.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopLife()
	cancel := s.cancelWarm
	started := s.state != StateUninitialized
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if started {
		<-s.warmDone
	}
}
