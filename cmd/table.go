package cmd

import (
	"strings"

	"github.com/pterm/pterm"
)

// PrintTableNoPad renders data as a table without pterm's trailing blank line.
func PrintTableNoPad(data pterm.TableData, hasHeader bool) {
	out, err := pterm.DefaultTable.WithHasHeader(hasHeader).WithData(data).Srender()
	if err != nil {
		logger.Debug("could not render table", logger.Args("error", err))
		return
	}
	pterm.Println(strings.TrimRight(out, "\n"))
}
