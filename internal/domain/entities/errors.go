package entities

import "errors"

var (
	// ErrCorpusLoad means the verse source could not be read; callers fall
	// back to the built-in corpus.
	ErrCorpusLoad = errors.New("corpus load failed")

	// ErrEmbeddingInit means warm-up failed; the session stays in fallback mode.
	ErrEmbeddingInit = errors.New("embedding initialization failed")

	// ErrEmbeddingCall means a single query embedding failed; only that reply
	// falls back.
	ErrEmbeddingCall = errors.New("embedding call failed")

	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrZeroVector        = errors.New("embedding vector has zero norm")

	ErrEmptyMessage    = errors.New("message is empty")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
)
