// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import "fmt"

// Sender identifies who authored a conversation turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Turn represents one message in a conversation.
type Turn struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// Ranked pairs a corpus index with its similarity to a query.
type Ranked struct {
	Index int
	Score float32
}

// SelectionPath records which policy picked a reply.
type SelectionPath string

const (
	PathSemantic SelectionPath = "semantic"
	PathFallback SelectionPath = "fallback"
)

// Reply is the verse chosen for one user message.
type Reply struct {
	Text  string        `json:"text"`
	Index int           `json:"index"`
	Path  SelectionPath `json:"path"`
}

// Phase is the advisory lifecycle stage of a session's semantic index.
type Phase string

const (
	PhaseLoading  Phase = "loading"
	PhaseIndexing Phase = "indexing"
	PhaseOnline   Phase = "online"
	PhaseOffline  Phase = "offline"
)

// Status is telemetry for the UI collaborator. It is not part of the
// selection contract.
type Status struct {
	Phase         Phase `json:"phase"`
	Indexed       int   `json:"indexed"`
	Total         int   `json:"total"`
	CorpusOffline bool  `json:"corpus_offline,omitempty"`
}

// String renders the status line shown next to the chat header.
func (s Status) String() string {
	var line string
	switch s.Phase {
	case PhaseLoading:
		line = "loading"
	case PhaseIndexing:
		line = fmt.Sprintf("indexing %d/%d", s.Indexed, s.Total)
	case PhaseOnline:
		line = "online"
	default:
		line = "offline"
	}
	if s.CorpusOffline {
		line += " (default verses)"
	}
	return line
}
