package selection

import "github.com/0xcro3dile/versebot/internal/domain/entities"

// ConversationLog is the append-only record of a session's turns.
// It is not safe for concurrent use.
type ConversationLog struct {
	turns []entities.Turn
}

// Append records a turn at the end of the log.
func (l *ConversationLog) Append(text string, sender entities.Sender) {
	l.turns = append(l.turns, entities.Turn{Text: text, Sender: sender})
}

// Len returns the number of recorded turns.
func (l *ConversationLog) Len() int { return len(l.turns) }

// Tail returns a copy of the last n turns, oldest first.
func (l *ConversationLog) Tail(n int) []entities.Turn {
	if n < 0 || n > len(l.turns) {
		n = len(l.turns)
	}
	out := make([]entities.Turn, n)
	copy(out, l.turns[len(l.turns)-n:])
	return out
}

// All returns a copy of every turn.
func (l *ConversationLog) All() []entities.Turn {
	return l.Tail(-1)
}
