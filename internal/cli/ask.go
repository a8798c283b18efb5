package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ingres-ai/hydrotalk/internal/chat"
	"github.com/ingres-ai/hydrotalk/internal/markup"
)

var askChatID string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the groundwater assistant a single question",
	Long: `Send one question to the INGRES AI agent and print its reply.

Without --chat a new conversation is created and its id printed, so a
follow-up can continue it. With --chat the question is appended to an
existing conversation with its full history.

Examples:
  hydrotalk ask "Groundwater extraction stage in Punjab?"
  hydrotalk ask --chat t1 "And how did it change since 2017?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askChatID, "chat", "", "continue an existing conversation id")
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	ctx := context.Background()

	// Echo each status caption to stderr once, so the one-shot command
	// shows the same processing phases as the dashboard.
	var sess *chat.Session
	var mu sync.Mutex
	printed := map[string]bool{}
	onChange := func() {
		mu.Lock()
		defer mu.Unlock()
		for _, m := range sess.Messages() {
			if m.Transient() && !printed[m.ID] {
				printed[m.ID] = true
				fmt.Fprintln(os.Stderr, m.Content)
			}
		}
	}

	sess = chat.NewSession(apiClient, chat.Options{
		Dwell:    cfg.StatusDwell,
		Notify:   printNotifier,
		OnChange: onChange,
	})

	if askChatID != "" {
		if err := sess.LoadThread(ctx, askChatID); err != nil {
			return err
		}
	}

	newThread := ""
	sess.SetOnThread(func(id string) { newThread = id })

	if err := sess.Send(ctx, args[0]); err != nil {
		return err
	}

	printReply(sess.Messages())
	if newThread != "" {
		fmt.Printf("\nConversation saved as %s. Continue with --chat %s\n", newThread, newThread)
	}
	return nil
}

// printReply writes the agent's latest answer with formatting applied.
func printReply(messages []chat.Message) {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role != chat.RoleBot || m.Transient() {
			continue
		}
		fmt.Println(strings.TrimRight(markup.PlainText(markup.Parse(m.Content)), "\n"))
		if m.Metadata != nil && m.Metadata.Source != "" {
			fmt.Fprintf(os.Stderr, "source: %s\n", m.Metadata.Source)
		}
		return
	}
	fmt.Println("No reply received.")
}
