package cmd

import (
	"fmt"
	"text/tabwriter"

	"go-iocage/service"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		purge bool
	)

	cmd := &cobra.Command{
		Use:   "history JAIL",
		Short: "Show recorded fstab changes of a jail",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			uuid := args[0]
			if purge {
				return a.svc.PurgeHistory(uuid)
			}

			records, err := a.svc.History(service.HistoryOptions{UUID: uuid, Limit: limit})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				a.svc.Logger().Info("No fstab history for %s", uuid)
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tACTION\tOUTCOME\tDESTINATION\tERROR")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					r.Time.Local().Format("2006-01-02 15:04:05"), r.Action, r.Outcome, r.Destination, r.Error)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most N records (0 for all)")
	cmd.Flags().BoolVar(&purge, "purge", false, "Delete the recorded history")
	return cmd
}
