package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stackswitch/cli/pkg/config"
)

// Metadata describes the running build.
type Metadata struct {
	Version string
	Commit  string
}

var metadata = Metadata{Version: "dev", Commit: "none"}

var logger = pterm.DefaultLogger.WithWriter(os.Stderr)

var rootCmd = &cobra.Command{
	Use:   "stackswitch",
	Short: "Switch OpenStack Horizon projects from the terminal",
	Long: `Switch between projects of an OpenStack Horizon console without clicking
through its menus.

stackswitch reads the project list from the console you are working in, keeps it
cached for a day and opens the project switch URL in your browser, bringing you
back to the page you were on.

Get started:
  stackswitch domains add https://cloud.example.com
  stackswitch session set https://cloud.example.com
  stackswitch projects list --url https://cloud.example.com/horizon/project/
  stackswitch switch my-project`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var cfg config.Config

func init() {
	rootCmd.PersistentFlags().String("url", "", "Console page you are on (defaults to $STACKSWITCH_URL, the config file, then the last used page)")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug information")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger = logger.WithLevel(pterm.LogLevelDebug)
	}
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context, m Metadata) error {
	metadata = m
	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(fmt.Sprintf("%s (%s)", m.Version, m.Commit)),
	)
}
