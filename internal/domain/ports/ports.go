// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"
	"time"
)

// EmbeddingService turns text into a fixed-dimension vector.
// Output dimensionality must not change within a session.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name identifies the backend and model, e.g. "ollama:nomic-embed-text".
	// It is part of the index cache key.
	Name() string
}

// Initializer is implemented by embedding services that must load a model
// before the first Embed call. Init failure disables semantic mode.
type Initializer interface {
	Init(ctx context.Context) error
}

// CorpusSource reads the raw, line-oriented verse file.
type CorpusSource interface {
	Load(ctx context.Context) (string, error)

	// Describe returns a human-readable location for logs.
	Describe() string
}

// IndexCache persists verse embeddings between sessions and restarts.
// Vectors are stored already unit-normalized, aligned with corpus order.
type IndexCache interface {
	// Load returns (nil, nil) on a cache miss.
	Load(ctx context.Context, key string) ([][]float32, error)

	Save(ctx context.Context, key string, vectors [][]float32) error
}

// Recorder receives selection telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ReplySelected(path string)
	EmbeddingFailed(stage string)
	WarmupFinished(outcome string, elapsed time.Duration)
	SessionsActive(n int)
	CorpusLoaded(size int, fallback bool)
}

// NopRecorder discards all telemetry.
type NopRecorder struct{}

func (NopRecorder) ReplySelected(string)                 {}
func (NopRecorder) EmbeddingFailed(string)               {}
func (NopRecorder) WarmupFinished(string, time.Duration) {}
func (NopRecorder) SessionsActive(int)                   {}
func (NopRecorder) CorpusLoaded(int, bool)               {}

// FileWatcher monitors a path for changes.
type FileWatcher interface {
	// Watch starts monitoring the file's directory and emits events for it.
	Watch(ctx context.Context, path string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

// String returns a log-friendly name.
func (o FileOperation) String() string {
	switch o {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
