package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stackswitch/cli/pkg/allowlist"
	"github.com/stackswitch/cli/pkg/util"
)

// DomainList defines the allow-list operations the domain commands use.
type DomainList interface {
	Domains() ([]string, error)
	Add(raw string) (string, error)
	Remove(raw string) error
}

// DomainsCmd manages the consoles stackswitch may read from.
type DomainsCmd struct {
	domains DomainList
}

type DomainsListInput struct {
	Output string
}

func (d DomainsCmd) Add(raw string) error {
	domain, err := d.domains.Add(raw)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Allowed %s\n", domain)
	return nil
}

func (d DomainsCmd) Remove(raw string) error {
	if err := d.domains.Remove(raw); err != nil {
		return err
	}
	pterm.Success.Printf("Removed %s\n", raw)
	return nil
}

func (d DomainsCmd) List(in DomainsListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	domains, err := d.domains.Domains()
	if err != nil {
		return err
	}
	if in.Output == "json" {
		return util.PrintPrettyJSON(domains)
	}
	if len(domains) == 0 {
		pterm.Info.Println("No domains allowed yet. Add one with: stackswitch domains add <url>")
		return nil
	}
	rows := pterm.TableData{{"Domain", "Pattern"}}
	for _, domain := range domains {
		rows = append(rows, []string{domain, allowlist.Pattern(domain)})
	}
	PrintTableNoPad(rows, true)
	return nil
}

var domainsCmd = &cobra.Command{
	Use:     "domains",
	Aliases: []string{"domain"},
	Short:   "Manage the consoles stackswitch may read project lists from",
}

var domainsAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Allow a console domain",
	Example: `  stackswitch domains add https://cloud.example.com
  stackswitch domains add "https://*.region.example.com"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDomainsCmd(cmd)
		if err != nil {
			return err
		}
		return d.Add(args[0])
	},
}

var domainsRemoveCmd = &cobra.Command{
	Use:     "remove <url>",
	Aliases: []string{"rm"},
	Short:   "Stop allowing a console domain",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDomainsCmd(cmd)
		if err != nil {
			return err
		}
		return d.Remove(args[0])
	},
}

var domainsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List allowed console domains",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDomainsCmd(cmd)
		if err != nil {
			return err
		}
		return d.List(DomainsListInput{Output: outputFlag(cmd)})
	},
}

func init() {
	addOutputFlag(domainsListCmd.Flags())
	domainsCmd.AddCommand(domainsAddCmd)
	domainsCmd.AddCommand(domainsRemoveCmd)
	domainsCmd.AddCommand(domainsListCmd)
	rootCmd.AddCommand(domainsCmd)
}

func newDomainsCmd(cmd *cobra.Command) (DomainsCmd, error) {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return DomainsCmd{}, err
	}
	return DomainsCmd{domains: a.domains}, nil
}
