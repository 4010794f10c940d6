package cmd

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stackswitch/cli/pkg/allowlist"
	"github.com/stackswitch/cli/pkg/cache"
	"github.com/stackswitch/cli/pkg/directory"
	"github.com/stackswitch/cli/pkg/filter"
	"github.com/stackswitch/cli/pkg/host"
	"github.com/stackswitch/cli/pkg/session"
	"github.com/stackswitch/cli/pkg/store"
	"github.com/stackswitch/cli/pkg/switcher"
)

// app holds the collaborators shared by the commands of one invocation.
type app struct {
	store     store.Store
	cache     *cache.Cache
	domains   *allowlist.List
	sessions  *session.Store
	locator   *host.Locator
	navigator switcher.Navigator
	switcher  *switcher.Switcher
}

type appOptions struct {
	// printOnly prints switch URLs instead of opening them
	printOnly bool
}

func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	statePath, err := cfg.StatePath()
	if err != nil {
		return nil, err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}

	flagURL, _ := cmd.Flags().GetString("url")

	a := &app{
		store:    store.NewFileStore(statePath),
		sessions: session.NewStore(),
	}
	a.cache = cache.New(a.store, logger)
	a.domains = allowlist.New(a.store)
	a.locator = host.NewLocator(a.store, flagURL, cfg.ConsoleURL)
	if opts.printOnly {
		a.navigator = host.PrintNavigator{W: cmd.OutOrStdout()}
	} else {
		a.navigator = host.NewBrowserNavigator()
	}

	fetcher := host.NewHTTPFetcher(a.domains, a.sessions, cfg.FetchTimeout, "stackswitch/"+metadata.Version)
	scraper := directory.NewScraper(fetcher, layout, logger)
	a.switcher = switcher.New(a.locator, a.navigator, scraper, a.cache, switcher.Options{
		MaxAge:       cfg.MaxAge(),
		FetchTimeout: cfg.FetchTimeout,
		Marker:       filter.ForOutput(cmd.OutOrStdout(), os.Environ(), !pterm.RawOutput),
		Logger:       logger,
	})
	return a, nil
}

// rememberPage keeps the active page for later runs once it proved usable.
func (a *app) rememberPage(ctx context.Context) {
	page, err := a.locator.ActivePage(ctx)
	if err != nil || page == "" {
		return
	}
	if err := a.locator.Remember(page); err != nil {
		logger.Debug("could not remember active page", logger.Args("error", err))
	}
}
