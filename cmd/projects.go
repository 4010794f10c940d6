package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/stackswitch/cli/pkg/directory"
	"github.com/stackswitch/cli/pkg/filter"
	"github.com/stackswitch/cli/pkg/switcher"
	"github.com/stackswitch/cli/pkg/util"
)

// DirectoryService is the part of the switcher the project commands use.
type DirectoryService interface {
	Activate(ctx context.Context) error
	Refresh(ctx context.Context) error
	Search(term string) filter.Result
	Snapshot() (directory.Snapshot, switcher.Source)
	Resolve(ref string) (directory.Record, error)
	Switch(ctx context.Context, tenantID string) (string, error)
}

// ProjectsCmd handles project listing and switching independent of cobra.
type ProjectsCmd struct {
	directory DirectoryService
	prompter  Prompter
	now       func() time.Time
}

type ProjectsListInput struct {
	Search  string
	Refresh bool
	Output  string
}

type ProjectsRefreshInput struct {
	Output string
}

type SwitchInput struct {
	Ref string
}

type PickInput struct {
	Search string
}

type listJSON struct {
	Projects   []directory.Record `json:"projects"`
	Matched    int                `json:"matched"`
	Total      int                `json:"total"`
	Source     string             `json:"source"`
	CapturedAt time.Time          `json:"captured_at"`
}

func (p ProjectsCmd) load(ctx context.Context, refresh bool) error {
	var err error
	if refresh {
		err = p.directory.Refresh(ctx)
	} else {
		err = p.directory.Activate(ctx)
	}
	if err != nil {
		pterm.Error.Println("Error loading projects.")
		return err
	}
	return nil
}

func (p ProjectsCmd) List(ctx context.Context, in ProjectsListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	if err := p.load(ctx, in.Refresh); err != nil {
		return err
	}

	res := p.directory.Search(in.Search)
	snap, src := p.directory.Snapshot()

	if in.Output == "json" {
		return util.PrintPrettyJSON(listJSON{
			Projects:   res.Records(),
			Matched:    res.Matched,
			Total:      res.Total,
			Source:     string(src),
			CapturedAt: snap.CapturedAt,
		})
	}

	if src == switcher.SourceCache {
		pterm.Info.Printf("Using cached projects from %s ago. Run with --refresh to reload.\n", util.FormatAge(p.clock().Sub(snap.CapturedAt)))
	}
	if res.Matched > 0 {
		rows := pterm.TableData{{"ID", "Name", "Description"}}
		for _, m := range res.Matches {
			rows = append(rows, []string{m.Record.ID, m.Name, util.OrDash(m.Description)})
		}
		PrintTableNoPad(rows, true)
	} else if res.Total == 0 {
		pterm.Warning.Println("The console lists no projects for this account.")
	} else {
		pterm.Warning.Printf("No projects match %q.\n", res.Term)
	}
	pterm.Println(res.Counter())
	return nil
}

func (p ProjectsCmd) Refresh(ctx context.Context, in ProjectsRefreshInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	if in.Output == "json" {
		return p.List(ctx, ProjectsListInput{Refresh: true, Output: "json"})
	}

	spinner, _ := pterm.DefaultSpinner.Start("Loading projects...")
	err := p.directory.Refresh(ctx)
	if err != nil {
		if spinner != nil {
			spinner.Fail("Error loading projects.")
		}
		return err
	}
	snap, _ := p.directory.Snapshot()
	if spinner != nil {
		spinner.Success(fmt.Sprintf("Project list updated: %d projects", len(snap.Records)))
	}
	return nil
}

func (p ProjectsCmd) Switch(ctx context.Context, in SwitchInput) error {
	if err := p.load(ctx, false); err != nil {
		return err
	}
	rec, err := p.directory.Resolve(in.Ref)
	if _, src := p.directory.Snapshot(); errors.Is(err, switcher.ErrUnknownProject) && src == switcher.SourceCache {
		// The project may be newer than the cached snapshot.
		logger.Debug("project not in snapshot, refreshing", logger.Args("ref", in.Ref))
		if err := p.load(ctx, true); err != nil {
			return err
		}
		rec, err = p.directory.Resolve(in.Ref)
	}
	if err != nil {
		return err
	}
	return p.switchTo(ctx, rec)
}

func (p ProjectsCmd) Pick(ctx context.Context, in PickInput) error {
	if p.prompter == nil {
		return fmt.Errorf("interactive input is not available")
	}
	if err := p.load(ctx, false); err != nil {
		return err
	}

	term := in.Search
	if term == "" {
		var err error
		term, err = p.prompter.Input("Search projects", false)
		if err != nil {
			return err
		}
	}

	res := p.directory.Search(term)
	pterm.Println(res.Counter())
	if res.Matched == 0 {
		return fmt.Errorf("no projects match %q", filter.Normalize(term))
	}

	labels := lo.Map(res.Matches, func(m filter.Match, _ int) string {
		return fmt.Sprintf("%s (%s)", m.Record.Name, m.Record.ID)
	})
	byLabel := lo.SliceToMap(res.Matches, func(m filter.Match) (string, directory.Record) {
		return fmt.Sprintf("%s (%s)", m.Record.Name, m.Record.ID), m.Record
	})

	choice, err := p.prompter.Select("Switch to project", labels)
	if err != nil {
		return err
	}
	rec, ok := byLabel[choice]
	if !ok {
		return fmt.Errorf("unknown selection %q", choice)
	}
	return p.switchTo(ctx, rec)
}

func (p ProjectsCmd) switchTo(ctx context.Context, rec directory.Record) error {
	target, err := p.directory.Switch(ctx, rec.ID)
	if err != nil {
		pterm.Error.Printf("Could not switch to %s.\n", rec.Name)
		return err
	}
	pterm.Success.Printf("Switching to %s (%s)\n", rec.Name, rec.ID)
	logger.Debug("switch URL", logger.Args("url", target))
	return nil
}

func (p ProjectsCmd) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "tenants"},
	Short:   "List and refresh the projects of the active console",
}

var projectsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects, optionally filtered by a search term",
	Long: `List the projects of the active console.

A project matches the search term when its name starts with the term or its
description contains it. Matches are highlighted.`,
	Example: `  stackswitch projects list
  stackswitch projects list --search net
  stackswitch projects list --refresh -o json`,
	Args: cobra.NoArgs,
	RunE: runProjectsList,
}

var projectsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload the project list from the console, ignoring the cache",
	Args:  cobra.NoArgs,
	RunE:  runProjectsRefresh,
}

var switchCmd = &cobra.Command{
	Use:   "switch <project-id-or-name>",
	Short: "Switch the console to a project",
	Long: `Switch the console to a project and return to the page you are on.

The project is looked up by id, then by exact name, then by a unique name prefix.`,
	Example: `  stackswitch switch 6b1c0d3f8e2a4d5c9f7e1a2b3c4d5e6f
  stackswitch switch prod-eu
  stackswitch switch prod-eu --print`,
	Args: cobra.ExactArgs(1),
	RunE: runSwitch,
}

var pickCmd = &cobra.Command{
	Use:   "pick [search]",
	Short: "Search projects interactively and switch to the chosen one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPick,
}

func init() {
	projectsListCmd.Flags().StringP("search", "s", "", "Only show projects matching this term")
	projectsListCmd.Flags().BoolP("refresh", "r", false, "Reload from the console even if the cache is fresh")
	addOutputFlag(projectsListCmd.Flags())
	addOutputFlag(projectsRefreshCmd.Flags())
	switchCmd.Flags().Bool("print", false, "Print the switch URL instead of opening it")
	pickCmd.Flags().Bool("print", false, "Print the switch URL instead of opening it")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsRefreshCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(pickCmd)
}

func newProjectsCmd(cmd *cobra.Command) (ProjectsCmd, *app, error) {
	printOnly, _ := cmd.Flags().GetBool("print")
	a, err := newApp(cmd, appOptions{printOnly: printOnly})
	if err != nil {
		return ProjectsCmd{}, nil, err
	}
	return ProjectsCmd{directory: a.switcher, prompter: ptermPrompter{}}, a, nil
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	p, a, err := newProjectsCmd(cmd)
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")
	refresh, _ := cmd.Flags().GetBool("refresh")
	err = p.List(cmd.Context(), ProjectsListInput{
		Search:  search,
		Refresh: refresh,
		Output:  outputFlag(cmd),
	})
	if err == nil {
		a.rememberPage(cmd.Context())
	}
	return err
}

func runProjectsRefresh(cmd *cobra.Command, args []string) error {
	p, a, err := newProjectsCmd(cmd)
	if err != nil {
		return err
	}
	err = p.Refresh(cmd.Context(), ProjectsRefreshInput{Output: outputFlag(cmd)})
	if err == nil {
		a.rememberPage(cmd.Context())
	}
	return err
}

func runSwitch(cmd *cobra.Command, args []string) error {
	p, a, err := newProjectsCmd(cmd)
	if err != nil {
		return err
	}
	err = p.Switch(cmd.Context(), SwitchInput{Ref: args[0]})
	if err == nil {
		a.rememberPage(cmd.Context())
	}
	return err
}

func runPick(cmd *cobra.Command, args []string) error {
	p, a, err := newProjectsCmd(cmd)
	if err != nil {
		return err
	}
	in := PickInput{}
	if len(args) == 1 {
		in.Search = args[0]
	}
	err = p.Pick(cmd.Context(), in)
	if err == nil {
		a.rememberPage(cmd.Context())
	}
	return err
}
