package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
	"github.com/0xcro3dile/versebot/internal/domain/usecases"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with versebot in the terminal",
	Long: `Opens a single session on stdin/stdout. Type a message and press enter;
an empty line is ignored and EOF (Ctrl-D) ends the chat.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	manager := a.newManager(ctx, cfg, logger)
	defer manager.Shutdown()

	session := manager.Create()
	return chatLoop(ctx, session, cmd.InOrStdin(), cmd.OutOrStdout())
}

// chatLoop reads one message per line and prints each reply, announcing
// status changes such as the end of indexing.
func chatLoop(ctx context.Context, session *usecases.Session, in io.Reader, out io.Writer) error {
	lastStatus := ""
	printStatus := func() {
		if line := session.Status().String(); line != lastStatus {
			fmt.Fprintf(out, "[%s]\n", line)
			lastStatus = line
		}
	}

	printStatus()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		reply, err := session.Submit(ctx, text)
		if errors.Is(err, entities.ErrSessionClosed) || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		printStatus()
		fmt.Fprintln(out, reply.Text)
	}
}
