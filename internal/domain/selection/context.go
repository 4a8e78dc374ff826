package selection

import (
	"strings"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
)

// ContextOptions controls how the query text is assembled.
type ContextOptions struct {
	HistoryTurns int    // how many trailing turns to include
	UserPrefix   string // role label for user turns
	BotPrefix    string // role label for bot turns
}

// DefaultContextOptions matches the labels the verse corpus was tuned for.
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		HistoryTurns: 6,
		UserPrefix:   "Utente",
		BotPrefix:    "Bot",
	}
}

// BuildContext renders the last HistoryTurns turns plus the new message as
// "<Prefix>: <text>" lines joined by newlines, oldest first.
func BuildContext(message string, history []entities.Turn, opts ContextOptions) string {
	if n := opts.HistoryTurns; n >= 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString(opts.prefix(turn.Sender))
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
		sb.WriteByte('\n')
	}
	sb.WriteString(opts.UserPrefix)
	sb.WriteString(": ")
	sb.WriteString(message)
	return sb.String()
}

func (o ContextOptions) prefix(s entities.Sender) string {
	if s == entities.SenderUser {
		return o.UserPrefix
	}
	return o.BotPrefix
}
