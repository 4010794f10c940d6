package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stackswitch/cli/pkg/session"
)

// SessionStore defines the cookie storage the session commands use.
type SessionStore interface {
	Set(origin, cookie string) error
	Clear(origin string) error
}

// SessionCmd stores the console cookie used for directory fetches.
type SessionCmd struct {
	sessions SessionStore
	prompter Prompter
}

type SessionSetInput struct {
	Origin string
	Cookie string
}

func (s SessionCmd) Set(in SessionSetInput) error {
	origin, err := parseOrigin(in.Origin)
	if err != nil {
		return err
	}
	cookie := in.Cookie
	if cookie == "" {
		if s.prompter == nil {
			return fmt.Errorf("--cookie is required")
		}
		cookie, err = s.prompter.Input(fmt.Sprintf("Cookie header for %s (e.g. sessionid=...)", origin), true)
		if err != nil {
			return err
		}
	}
	if err := s.sessions.Set(origin, cookie); err != nil {
		return err
	}
	pterm.Success.Printf("Saved session for %s in the system keyring\n", origin)
	return nil
}

func (s SessionCmd) Clear(rawOrigin string) error {
	origin, err := parseOrigin(rawOrigin)
	if err != nil {
		return err
	}
	if err := s.sessions.Clear(origin); err != nil {
		return err
	}
	pterm.Success.Printf("Cleared session for %s\n", origin)
	return nil
}

// parseOrigin reduces any console URL to scheme://host[:port].
func parseOrigin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("expected a console URL such as https://cloud.example.com, got %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the console session cookie used to read project lists",
	Long: `Manage the console session cookie used to read project lists.

stackswitch does not log in. Copy the Cookie header of a logged-in console
request from your browser's developer tools and store it here; it is kept in
the system keyring.`,
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <console-url>",
	Short: "Store the session cookie for a console",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cookie, _ := cmd.Flags().GetString("cookie")
		s := SessionCmd{sessions: session.NewStore(), prompter: ptermPrompter{}}
		return s.Set(SessionSetInput{Origin: args[0], Cookie: cookie})
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <console-url>",
	Short: "Remove the session cookie for a console",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := SessionCmd{sessions: session.NewStore()}
		return s.Clear(args[0])
	},
}

func init() {
	sessionSetCmd.Flags().String("cookie", "", "Cookie header value (prompted for when omitted)")
	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}
