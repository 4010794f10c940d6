package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// outputFormat is the value of an --output flag.
type outputFormat string

func (o *outputFormat) String() string { return string(*o) }

func (o *outputFormat) Set(v string) error {
	switch v {
	case "", "json":
		*o = outputFormat(v)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: use 'json'", v)
	}
}

func (o *outputFormat) Type() string { return "format" }

func addOutputFlag(fs *pflag.FlagSet) {
	var o outputFormat
	fs.VarP(&o, "output", "o", "Output format (json)")
}

func outputFlag(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("output"); f != nil {
		return f.Value.String()
	}
	return ""
}
