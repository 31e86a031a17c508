package cmd

import (
	"github.com/spf13/cobra"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit JAIL",
		Short: "Edit a jail's fstab in $EDITOR",
		Long: `Open a copy of the jail's fstab in $EDITOR and write it back when the
editor exits cleanly. Live mounts are not changed; restart the jail to apply
the edited fstab.`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			return a.svc.Edit(cmd.Context(), args[0], a.flags.tag)
		}),
	}
}
