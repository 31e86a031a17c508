package cmd

import (
	"fmt"

	"go-iocage/service"

	"github.com/spf13/cobra"
)

func newRemoveCmd(a *app) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "remove JAIL {--index N | SOURCE DESTINATION [FSTYPE [OPTIONS [DUMP [PASS]]]]}",
		Short: "Remove a mount from a jail's fstab",
		Long: `Remove the first fstab line matching the given entry, or the N-th entry
as shown by "list", and unmount it if the jail is running. Indices shift after
every removal; list again before removing another entry by index.`,
		Args: cobra.RangeArgs(1, 7),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			opts := service.RemoveOptions{UUID: args[0], Tag: a.flags.tag}

			byIndex := cmd.Flags().Changed("index")
			switch {
			case byIndex && len(args) > 1:
				return fmt.Errorf("use either --index or an entry, not both")
			case byIndex:
				opts.Index = &index
			default:
				e, err := entryFromArgs(args[1:])
				if err != nil {
					return err
				}
				opts.Entry = e
			}

			res, err := a.svc.Remove(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if res.Found {
				a.svc.Logger().Debug("%s: %s", res.State, res.Destination)
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "Remove the N-th entry (zero based)")
	return cmd
}
