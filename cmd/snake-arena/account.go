package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-arena/internal/client"
	"github.com/vovakirdan/snake-arena/internal/session"
)

var (
	flagEmail    string
	flagPassword string
	flagUsername string
	flagAvatar   string
)

// newClient loads the session and returns a client bound to it.
func newClient() (*client.Client, error) {
	sess, err := session.Load(appConfig.Client.SessionPath)
	if err != nil {
		return nil, err
	}
	return client.New(appConfig.Client.BaseURL, appConfig.Client.Timeout, sess), nil
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create an account on the server and sign in.

Missing values are prompted for. The password is read without echo.

Examples:
  snake-arena signup --email you@example.com --username viper`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, err := valueOrPrompt(flagEmail, "Email: ")
		if err != nil {
			return err
		}
		username, err := valueOrPrompt(flagUsername, "Username: ")
		if err != nil {
			return err
		}
		password, err := passwordOrPrompt(flagPassword)
		if err != nil {
			return err
		}

		cl, err := newClient()
		if err != nil {
			return err
		}
		u, err := cl.Signup(cmd.Context(), email, password, username)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome, %s! You are signed in.\n", u.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Long: `Sign in and store the session for later commands.

Examples:
  snake-arena login --email you@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, err := valueOrPrompt(flagEmail, "Email: ")
		if err != nil {
			return err
		}
		password, err := passwordOrPrompt(flagPassword)
		if err != nil {
			return err
		}

		cl, err := newClient()
		if err != nil {
			return err
		}
		u, err := cl.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome back, %s!\n", u.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cl, err := newClient()
		if err != nil {
			return err
		}
		if err := cl.Logout(cmd.Context()); err != nil {
			// The local session is gone either way.
			logger.Warn("server logout failed", "error", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cl, err := newClient()
		if err != nil {
			return err
		}
		u, err := cl.Me(cmd.Context())
		if errors.Is(err, client.ErrNotAuthenticated) {
			fmt.Println("Not signed in. Run 'snake-arena login' first.")
			return nil
		}
		if err != nil {
			return err
		}

		stats, err := cl.UserStats(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		printUser(u)
		fmt.Printf("  Rank:         #%d\n", stats.Rank)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Change username or avatar",
	Long: `Update the signed-in account. Only the given flags are changed.

Examples:
  snake-arena profile --username neon
  snake-arena profile --avatar 🐍`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var username, avatar *string
		if cmd.Flags().Changed("username") {
			username = &flagUsername
		}
		if cmd.Flags().Changed("avatar") {
			avatar = &flagAvatar
		}
		if username == nil && avatar == nil {
			return errors.New("nothing to change, pass --username and/or --avatar")
		}

		cl, err := newClient()
		if err != nil {
			return err
		}
		u, err := cl.UpdateProfile(cmd.Context(), username, avatar)
		if err != nil {
			return err
		}
		fmt.Println("Profile updated.")
		printUser(u)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{signupCmd, loginCmd} {
		cmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
		cmd.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted if empty)")
	}
	signupCmd.Flags().StringVar(&flagUsername, "username", "", "Display name")
	profileCmd.Flags().StringVar(&flagUsername, "username", "", "New display name")
	profileCmd.Flags().StringVar(&flagAvatar, "avatar", "", "New avatar (emoji or short text)")
}

func printUser(u session.User) {
	name := u.Username
	if u.Avatar != "" {
		name = u.Avatar + " " + name
	}
	fmt.Printf("  User:         %s\n", name)
	fmt.Printf("  Email:        %s\n", u.Email)
	fmt.Printf("  High score:   %d\n", u.HighScore)
	fmt.Printf("  Games played: %d\n", u.GamesPlayed)
}

func valueOrPrompt(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("cannot read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func passwordOrPrompt(value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return valueOrPrompt("", "Password: ")
	}
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("cannot read password: %w", err)
	}
	return string(pw), nil
}

