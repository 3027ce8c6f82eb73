package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nzaccagnino/volon/internal/api"
	"github.com/nzaccagnino/volon/internal/i18n"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account on the sync server and log in",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate(cmd.Context(), args, (*api.Client).Register, true)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in to the sync server and import local notes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate(cmd.Context(), args, (*api.Client).Login, false)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the server session and go back to local notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// no remote round trip: an unreachable server must not block logout
		a, err := openApp(cmd.Context(), openOptions{skipLoad: true})
		if err != nil {
			return err
		}
		defer a.Close()

		a.client.ClearSession()
		a.cfg.Server.ClearSession()
		if err := a.saveConfig(); err != nil {
			return err
		}
		if err := a.coord.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(i18n.T().LoggedOut)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy local notes missing on the server to the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), openOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.client.SignedIn() {
			return errors.New(i18n.T().NotSignedIn)
		}
		n, err := a.coord.ImportLocalNotesIntoRemote(cmd.Context())
		fmt.Printf(i18n.T().ImportedNotes+"\n", n)
		return err
	},
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, importCmd)
}

type authFunc func(c *api.Client, ctx context.Context, username, password string) (*api.LoginResponse, error)

// authenticate logs in (or registers), moves the notes to remote mode and
// saves the session to the config.
func authenticate(ctx context.Context, args []string, auth authFunc, registering bool) error {
	t := i18n.T()

	// a stale or expired saved session is replaced, so start from local notes
	a, err := openApp(ctx, openOptions{ignoreSession: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.client.IsConfigured() {
		return errors.New(t.ServerNotSet)
	}

	username := a.cfg.Server.Username
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		if username, err = prompt(t.UsernamePrompt); err != nil {
			return err
		}
	}
	password, err := promptPassword(t.PasswordPrompt)
	if err != nil {
		return err
	}

	resp, err := auth(a.client, ctx, username, password)
	if err != nil {
		return err
	}
	if registering {
		fmt.Printf(t.Registered+"\n", resp.Username)
	}

	a.cfg.Server.Enabled = true
	a.cfg.Server.Token = resp.Token
	a.cfg.Server.UserID = resp.UserID
	a.cfg.Server.Username = resp.Username
	if err := a.saveConfig(); err != nil {
		return err
	}

	imported, err := a.coord.SignIn(ctx)
	if imported > 0 {
		fmt.Printf(t.ImportedNotes+"\n", imported)
	}
	if err != nil {
		return err
	}
	fmt.Printf(t.LoggedInAs+"\n", resp.Username)
	return nil
}

var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return prompt(label)
	}
	fmt.Print(label)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(password)), nil
}
