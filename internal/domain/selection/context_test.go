package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
)

func TestBuildContext_NoHistory(t *testing.T) {
	got := BuildContext("ciao", nil, DefaultContextOptions())
	assert.Equal(t, "Utente: ciao", got)
}

func TestBuildContext_RendersRolesInOrder(t *testing.T) {
	history := []entities.Turn{
		{Text: "come stai?", Sender: entities.SenderUser},
		{Text: "Sarai come ossigeno.", Sender: entities.SenderBot},
	}
	got := BuildContext("e poi?", history, DefaultContextOptions())
	assert.Equal(t, "Utente: come stai?\nBot: Sarai come ossigeno.\nUtente: e poi?", got)
}

func TestBuildContext_KeepsOnlyLastSixTurns(t *testing.T) {
	var log ConversationLog
	for i := 0; i < 9; i++ {
		sender := entities.SenderUser
		if i%2 == 1 {
			sender = entities.SenderBot
		}
		log.Append(fmt.Sprintf("t%d", i), sender)
	}

	got := BuildContext("now", log.All(), DefaultContextOptions())
	want := "Bot: t3\nUtente: t4\nBot: t5\nUtente: t6\nBot: t7\nUtente: t8\nUtente: now"
	assert.Equal(t, want, got)
}

func TestBuildContext_CustomOptions(t *testing.T) {
	opts := ContextOptions{HistoryTurns: 1, UserPrefix: "User", BotPrefix: "Poet"}
	history := []entities.Turn{
		{Text: "a", Sender: entities.SenderUser},
		{Text: "b", Sender: entities.SenderBot},
	}
	assert.Equal(t, "Poet: b\nUser: c", BuildContext("c", history, opts))
}

func TestBuildContext_DoesNotMutateHistory(t *testing.T) {
	history := []entities.Turn{{Text: "x", Sender: entities.SenderUser}}
	BuildContext("y", history, DefaultContextOptions())
	assert.Equal(t, []entities.Turn{{Text: "x", Sender: entities.SenderUser}}, history)
}

func TestConversationLog_TailAndAll(t *testing.T) {
	var log ConversationLog
	assert.Empty(t, log.All())

	log.Append("a", entities.SenderUser)
	log.Append("b", entities.SenderBot)
	log.Append("c", entities.SenderUser)

	assert.Equal(t, 3, log.Len())
	assert.Equal(t, []entities.Turn{
		{Text: "b", Sender: entities.SenderBot},
		{Text: "c", Sender: entities.SenderUser},
	}, log.Tail(2))
	assert.Len(t, log.Tail(10), 3)

	tail := log.Tail(1)
	tail[0].Text = "changed"
	assert.Equal(t, "c", log.All()[2].Text)
}
