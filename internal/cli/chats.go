package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ingres-ai/hydrotalk/internal/chat"
)

var chatsFilter string

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List your conversation threads",
	Long: `List the conversation threads of the signed-in user, newest first
as returned by the backend.

Examples:
  hydrotalk chats
  hydrotalk chats --filter punjab`,
	Args: cobra.NoArgs,
	RunE: runChats,
}

func init() {
	chatsCmd.Flags().StringVarP(&chatsFilter, "filter", "f", "", "case-insensitive title filter")
}

func runChats(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	dir := chat.NewDirectory(apiClient, printNotifier, nil)
	threads, err := dir.List(context.Background())
	if err != nil {
		return err
	}

	threads = chat.FilterThreads(threads, chatsFilter)
	if len(threads) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	for _, t := range threads {
		fmt.Printf("%-26s  %-40s  %s\n", t.ID, t.Title, t.UpdatedAt)
	}
	return nil
}
