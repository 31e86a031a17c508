package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"go-iocage/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list JAIL",
		Short: "List the entries of a jail's fstab",
		Long: `List the entries of a jail's fstab with the index "remove --index"
expects. Comments and blank lines are not shown.`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			entries, err := a.svc.List(args[0])
			if err != nil {
				return err
			}
			return writeEntries(a.stdout, format, entries)
		}),
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")
	return cmd
}

func writeEntries(w io.Writer, format string, entries []service.ListedEntry) error {
	switch format {
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tSOURCE\tDESTINATION\tFSTYPE\tOPTIONS\tDUMP\tPASS")
		for _, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
				e.Index, e.Source, e.Destination, e.FSType, e.Options, e.Dump, e.Pass)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
