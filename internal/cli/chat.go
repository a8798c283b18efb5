package cli

import (
	"github.com/spf13/cobra"

	"github.com/ingres-ai/hydrotalk/internal/chat"
	"github.com/ingres-ai/hydrotalk/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat screen",
	Long: `Open the full-screen chat interface: your conversation threads in a
searchable sidebar, the active conversation in the main pane, and an
input line for new questions.

Key bindings:
  enter    send / select thread
  tab      cycle focus (input, search, sidebar)
  ctrl+n   start a new conversation
  ctrl+c   quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	logger.Info("starting chat screen", "base_url", cfg.BaseURL)
	return tui.Run(apiClient, store, logger, chat.Options{
		Dwell: cfg.StatusDwell,
	})
}
