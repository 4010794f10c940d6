package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stackswitch/cli/internal/horizon"
	"github.com/stackswitch/cli/pkg/directory"
	"github.com/stackswitch/cli/pkg/util"
)

// SnapshotReader is the cache view the status command needs.
type SnapshotReader interface {
	Read(scope string) (directory.Snapshot, bool)
}

// StatusCmd reports what stackswitch knows about the active console.
type StatusCmd struct {
	locator     interface{ ActivePage(ctx context.Context) (string, error) }
	cache       SnapshotReader
	gate        interface{ Check(target string) error }
	credentials interface {
		Get(origin string) (string, bool, error)
	}
	maxAge time.Duration
	now    func() time.Time
}

type StatusInput struct {
	Output string
}

type statusReport struct {
	Page       string     `json:"page"`
	Scope      string     `json:"scope"`
	Root       string     `json:"root"`
	Allowed    bool       `json:"allowed"`
	Session    bool       `json:"session"`
	Cached     int        `json:"cached_projects"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
	Fresh      bool       `json:"fresh"`
}

func (s StatusCmd) Status(ctx context.Context, in StatusInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	pageURL, err := s.locator.ActivePage(ctx)
	if err != nil {
		return err
	}
	page, err := horizon.ParsePage(pageURL)
	if errors.Is(err, horizon.ErrNoActivePage) {
		pterm.Warning.Println("No active console page. Pass --url or set STACKSWITCH_URL.")
		return err
	}
	if err != nil {
		return err
	}

	report := statusReport{
		Page:    pageURL,
		Scope:   page.Scope(),
		Root:    page.Root,
		Allowed: s.gate.Check(page.Scope()+horizon.DirectoryPath) == nil,
	}
	if _, ok, err := s.credentials.Get(page.Origin()); err == nil {
		report.Session = ok
	} else {
		logger.Debug("could not read session", logger.Args("error", err))
	}
	if snap, ok := s.cache.Read(page.Scope()); ok {
		report.Cached = len(snap.Records)
		report.CapturedAt = &snap.CapturedAt
		report.Fresh = snap.Age(s.clock()) < s.maxAge
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(report)
	}
	printStatus(report, s.clock())
	return nil
}

func (s StatusCmd) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

var statusColors = map[bool]pterm.RGB{
	true:  pterm.NewRGB(31, 163, 130),
	false: pterm.NewRGB(239, 68, 68),
}

func coloredDot(ok bool) string {
	return statusColors[ok].Sprint("●")
}

func printStatus(r statusReport, now time.Time) {
	pterm.Println()
	pterm.Println("  " + pterm.Bold.Sprint(r.Scope))
	pterm.Printf("    %-16s %s\n", "Page", r.Page)
	pterm.Printf("    %-16s %s\n", "Mount path", r.Root)
	pterm.Printf("    %s %-14s %s\n", coloredDot(r.Allowed), "Domain", yesNo(r.Allowed, "allowed", "not allowed (stackswitch domains add)"))
	pterm.Printf("    %s %-14s %s\n", coloredDot(r.Session), "Session", yesNo(r.Session, "stored in keyring", "none (stackswitch session set)"))

	cache := "empty"
	if r.CapturedAt != nil {
		cache = fmt.Sprintf("%d projects, %s old", r.Cached, util.FormatAge(now.Sub(*r.CapturedAt)))
	}
	pterm.Printf("    %s %-14s %s\n", coloredDot(r.Fresh), "Cache", cache)
	pterm.Println()
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active console, its allow-list, session and cache state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	addOutputFlag(statusCmd.Flags())
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	s := StatusCmd{
		locator:     a.locator,
		cache:       a.cache,
		gate:        a.domains,
		credentials: a.sessions,
		maxAge:      cfg.MaxAge(),
	}
	return s.Status(cmd.Context(), StatusInput{Output: outputFlag(cmd)})
}
