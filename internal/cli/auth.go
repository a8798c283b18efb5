package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to the INGRES AI backend",
	Long: `Sign in with your INGRES AI account. The password is read from the
terminal without echo. On success the session token is stored and
subsequent commands are authenticated.

Examples:
  hydrotalk login asha@example.org`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup <name> <email>",
	Short: "Create an INGRES AI account",
	Args:  cobra.ExactArgs(2),
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := args[0]

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	if _, err := store.Login(context.Background(), email, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Println("Run 'hydrotalk chat' to start a conversation.")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	name, email := args[0], args[1]

	password, err := readPassword("Choose a password: ")
	if err != nil {
		return err
	}

	if _, err := store.Signup(context.Background(), name, email, password); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	fmt.Println("Run 'hydrotalk chat' to start a conversation.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	return store.Logout()
}

func runWhoami(cmd *cobra.Command, args []string) error {
	user := store.User()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	if user.Name != "" {
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
	} else {
		fmt.Println(user.Email)
	}
	return nil
}

// readPassword prompts for a password without echoing it. Falls back
// to plain line input when stdin is not a terminal (tests, pipes).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
