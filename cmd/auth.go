package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/s0up4200/favmovies/tmdb"
)

var (
	loginUsername string
	loginPassword string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to TMDB and remember the session",
	Long: `Log in with your TMDB username and password. The password is only used
for the login handshake; the resulting session id is stored in the system
keyring. Omitted credentials are prompted for when running in a terminal.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the TMDB session and forget it",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in TMDB account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "TMDB username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "TMDB password (prompted when omitted)")
}

// prompter reads missing credentials from the user
type prompter struct {
	interactive bool
	readLine    func(prompt string) (string, error)
	readSecret  func(prompt string) (string, error)
}

func terminalPrompter(in io.Reader, out io.Writer) prompter {
	reader := bufio.NewReader(in)
	return prompter{
		interactive: isatty.IsTerminal(os.Stdin.Fd()),
		readLine: func(prompt string) (string, error) {
			fmt.Fprint(out, prompt)
			line, err := reader.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			return strings.TrimSpace(line), nil
		},
		readSecret: keyring.TerminalPrompt,
	}
}

// complete fills in whatever the flags left out
func (p prompter) complete(creds tmdb.Credentials) (tmdb.Credentials, error) {
	if creds.Username != "" && creds.Password != "" {
		return creds, nil
	}
	if !p.interactive {
		return creds, fmt.Errorf("%w: pass --username and --password when not running in a terminal", tmdb.ErrMissingCredentials)
	}

	var err error
	if creds.Username == "" {
		if creds.Username, err = p.readLine("TMDB username: "); err != nil {
			return creds, fmt.Errorf("failed to read username: %w", err)
		}
	}
	if creds.Password == "" {
		if creds.Password, err = p.readSecret("TMDB password: "); err != nil {
			return creds, fmt.Errorf("failed to read password: %w", err)
		}
	}
	return creds, nil
}

type accountView struct {
	Username  string     `json:"username,omitempty"`
	AccountID int        `json:"account_id"`
	Since     *time.Time `json:"since,omitempty"`
}

func runLogin(cmd *cobra.Command, args []string) error {
	creds, err := terminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()).complete(tmdb.Credentials{
		Username: loginUsername,
		Password: loginPassword,
	})
	if err != nil {
		return err
	}

	session, err := tmdbClient.Login(cmd.Context(), creds)
	if err != nil {
		var stageErr *tmdb.StageError
		if errors.As(err, &stageErr) && stageErr.Stage == tmdb.StageValidateLogin {
			return fmt.Errorf("login rejected, check your username and password: %w", err)
		}
		return err
	}

	store, err := sessionStore()
	if err != nil {
		return err
	}
	if err := store.Save(session); err != nil {
		return err
	}

	if printer.IsJSON() {
		return printer.Output(accountView{Username: session.Username, AccountID: session.AccountID})
	}
	printer.Text("✓ Logged in as %s (account %d)", displayName(session), session.AccountID)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := sessionStore()
	if err != nil {
		return err
	}
	rec, err := store.Load()
	if err != nil {
		return err
	}

	// Forget the local session even when TMDB refuses the logout.
	if err := tmdbClient.Logout(cmd.Context(), rec.Session); err != nil {
		logger.Warn().Err(err).Msg("Failed to delete session on TMDB")
	}
	if err := store.Clear(); err != nil {
		return err
	}

	printer.Text("✓ Logged out %s", displayName(rec.Session))
	return printer.Output(map[string]bool{"logged_out": true})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	store, err := sessionStore()
	if err != nil {
		return err
	}
	rec, err := store.Load()
	if err != nil {
		return err
	}

	if printer.IsJSON() {
		return printer.Output(accountView{
			Username:  rec.Username,
			AccountID: rec.AccountID,
			Since:     &rec.CreatedAt,
		})
	}

	printer.Text("%s (account %d)", displayName(rec.Session), rec.AccountID)
	if !rec.CreatedAt.IsZero() {
		printer.Text("Logged in since %s", rec.CreatedAt.Local().Format(time.RFC1123))
	}
	return nil
}

func displayName(s tmdb.Session) string {
	if s.Username != "" {
		return s.Username
	}
	return "unknown user"
}
