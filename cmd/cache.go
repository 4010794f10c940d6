package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stackswitch/cli/internal/horizon"
)

// CacheCmd drops cached project lists.
type CacheCmd struct {
	locator interface{ ActivePage(ctx context.Context) (string, error) }
	cache   interface{ Clear(scope string) error }
}

func (c CacheCmd) Clear(ctx context.Context) error {
	pageURL, err := c.locator.ActivePage(ctx)
	if err != nil {
		return err
	}
	page, err := horizon.ParsePage(pageURL)
	if err != nil {
		return err
	}
	if err := c.cache.Clear(page.Scope()); err != nil {
		return err
	}
	pterm.Success.Printf("Cleared cached projects for %s\n", page.Scope())
	return nil
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached project lists",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the cached project list of the active console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, appOptions{})
		if err != nil {
			return err
		}
		c := CacheCmd{locator: a.locator, cache: a.cache}
		return c.Clear(cmd.Context())
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
