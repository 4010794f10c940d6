// Package switcher sequences cache lookups, directory scrapes, filtering and
// project switches for one console.
package switcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/stackswitch/cli/internal/horizon"
	"github.com/stackswitch/cli/pkg/cache"
	"github.com/stackswitch/cli/pkg/directory"
	"github.com/stackswitch/cli/pkg/filter"
	"golang.org/x/sync/singleflight"
)

// State is the loading state of the switcher.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// PageLocator reports the console page the user is on.
type PageLocator interface {
	ActivePage(ctx context.Context) (string, error)
}

// Navigator sends the user's browser to a URL.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// Scraper captures the project directory of a console.
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (directory.Snapshot, error)
}

// DefaultFetchTimeout bounds a refresh when Options leaves it unset.
const DefaultFetchTimeout = 15 * time.Second

// Options tune a Switcher.
type Options struct {
	MaxAge       time.Duration
	FetchTimeout time.Duration
	Marker       filter.Marker
	Logger       *pterm.Logger
}

// Switcher holds at most one snapshot in memory and serializes its refreshes.
type Switcher struct {
	locator   PageLocator
	navigator Navigator
	scraper   Scraper
	cache     *cache.Cache
	opts      Options

	group singleflight.Group

	mu       sync.Mutex
	state    State
	snapshot directory.Snapshot
	source   Source
	err      error
}

// Source tells where the held snapshot came from.
type Source string

const (
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
)

// New returns an idle Switcher.
func New(locator PageLocator, navigator Navigator, scraper Scraper, c *cache.Cache, opts Options) *Switcher {
	if opts.MaxAge <= 0 {
		opts.MaxAge = cache.DefaultMaxAge
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Marker == nil {
		opts.Marker = filter.Brackets
	}
	if opts.Logger == nil {
		opts.Logger = &pterm.DefaultLogger
	}
	return &Switcher{
		locator:   locator,
		navigator: navigator,
		scraper:   scraper,
		cache:     c,
		opts:      opts,
		state:     StateIdle,
	}
}

// State returns the current state and, in StateError, the failure.
func (s *Switcher) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.err
}

// Snapshot returns the snapshot currently held and where it came from.
func (s *Switcher) Snapshot() (directory.Snapshot, Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.source
}

// Activate loads the directory for the active page, from the cache when it is
// fresh and from the console otherwise.
func (s *Switcher) Activate(ctx context.Context) error {
	page, err := s.activePage(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.setState(StateLoading)

	if s.cache.IsFresh(page.Scope(), s.opts.MaxAge) {
		if snap, ok := s.cache.Read(page.Scope()); ok {
			s.opts.Logger.Debug("using cached projects", s.opts.Logger.Args("scope", page.Scope(), "age", snap.Age(time.Now()).Round(time.Second)))
			s.ready(snap, SourceCache)
			return nil
		}
	}
	return s.refresh(ctx, page)
}

// Refresh scrapes the directory regardless of cache freshness. Concurrent
// refreshes of the same console share one scrape.
func (s *Switcher) Refresh(ctx context.Context) error {
	page, err := s.activePage(ctx)
	if err != nil {
		s.fail(err)
		return err
	}
	s.setState(StateLoading)
	return s.refresh(ctx, page)
}

func (s *Switcher) refresh(ctx context.Context, page horizon.Page) error {
	// Shared by every caller for the scope: detached from the first caller's
	// context and bounded by FetchTimeout alone.
	ch := s.group.DoChan(page.Scope(), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.FetchTimeout)
		defer cancel()

		snap, err := s.scraper.Scrape(fetchCtx, page.URL.String())
		if err != nil {
			return nil, err
		}
		if err := s.cache.Write(page.Scope(), snap); err != nil {
			s.opts.Logger.Warn("could not cache projects", s.opts.Logger.Args("scope", page.Scope(), "error", err))
		}
		return snap, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		s.fail(ctx.Err())
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		s.opts.Logger.Error("could not load projects", s.opts.Logger.Args("scope", page.Scope(), "error", res.Err))
		s.fail(res.Err)
		return res.Err
	}
	if res.Shared {
		s.opts.Logger.Debug("joined in-flight refresh", s.opts.Logger.Args("scope", page.Scope()))
	}
	s.ready(res.Val.(directory.Snapshot), SourceNetwork)
	return nil
}

// Search filters the held snapshot. It never touches the cache or network.
func (s *Switcher) Search(term string) filter.Result {
	snap, _ := s.Snapshot()
	return filter.Apply(snap.Records, term, s.opts.Marker)
}

// Switch sends the browser to the switch URL for tenantID and returns it. The
// loading state is left untouched.
func (s *Switcher) Switch(ctx context.Context, tenantID string) (string, error) {
	pageURL, err := s.locator.ActivePage(ctx)
	if err != nil {
		return "", err
	}
	target, err := horizon.SwitchURL(pageURL, tenantID)
	if err != nil {
		s.opts.Logger.Error("could not build switch URL", s.opts.Logger.Args("project", tenantID, "error", err))
		return "", err
	}
	if err := s.navigator.Navigate(ctx, target); err != nil {
		s.opts.Logger.Error("could not open switch URL", s.opts.Logger.Args("url", target, "error", err))
		return target, err
	}
	return target, nil
}

// Resolve finds a project in the held snapshot by exact id, then by
// case-insensitive exact name, then by a unique name prefix.
func (s *Switcher) Resolve(ref string) (directory.Record, error) {
	snap, _ := s.Snapshot()
	return Resolve(snap.Records, ref)
}

// ErrAmbiguous is returned when a reference matches several projects.
var ErrAmbiguous = errors.New("ambiguous project reference")

// ErrUnknownProject is returned when a reference matches no project.
var ErrUnknownProject = errors.New("unknown project")

func (s *Switcher) activePage(ctx context.Context) (horizon.Page, error) {
	pageURL, err := s.locator.ActivePage(ctx)
	if err != nil {
		return horizon.Page{}, fmt.Errorf("failed to determine active page: %w", err)
	}
	return horizon.ParsePage(pageURL)
}

func (s *Switcher) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.err = nil
}

func (s *Switcher) ready(snap directory.Snapshot, src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	s.snapshot = snap
	s.source = src
	s.err = nil
}

func (s *Switcher) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.err = err
}
