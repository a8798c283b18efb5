// Package cli provides the command-line interface for hydrotalk.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ingres-ai/hydrotalk/internal/api"
	"github.com/ingres-ai/hydrotalk/internal/config"
	"github.com/ingres-ai/hydrotalk/internal/session"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and clients, wired by the persistent pre-run.
	cfg        config.Config
	apiClient  *api.Client
	store      *session.Store
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hydrotalk",
	Short: "Terminal client for the INGRES AI groundwater assistant",
	Long: `Hydrotalk is a terminal client for INGRES AI, the conversational
assistant for India's groundwater assessment data.

Sign in, browse your past conversations, and ask questions about
groundwater levels, extraction stages, and regional trends. The
assistant itself runs on the INGRES AI backend; hydrotalk talks to it
over HTTP.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip wiring for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}
		if cmd.Name() == "chat" {
			// The TUI owns the terminal; keep logs out of stderr.
			logger, logCleanup = config.SetupFileLogger(cfg.LogFile, level)
		} else {
			logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
		}

		apiClient = api.New(cfg.BaseURL, cfg.Timeout)

		store, err = session.Load(cfg.SessionFile, apiClient, printNotifier)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// printNotifier surfaces session outcomes on the terminal, the CLI
// analogue of the dashboard's toasts.
func printNotifier(title, detail string) {
	fmt.Printf("%s %s\n", title, detail)
}

// requireAuth fails commands that need a signed-in session.
func requireAuth() error {
	if !store.Authenticated() {
		return fmt.Errorf("not signed in: run 'hydrotalk login <email>' first")
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(chatsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
}
