package cmd

import (
	"fmt"
	"strconv"

	"go-iocage/fstab"
	"go-iocage/service"

	"github.com/spf13/cobra"
)

// Field defaults for a bare "add JAIL SOURCE DESTINATION"
const (
	defaultFSType  = "nullfs"
	defaultOptions = "ro"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add JAIL SOURCE DESTINATION [FSTYPE [OPTIONS [DUMP [PASS]]]]",
		Short: "Add a mount to a jail's fstab",
		Long: `Append a mount to the jail's fstab and mount it right away if the jail
is running. DESTINATION is a path inside the jail. FSTYPE defaults to nullfs,
OPTIONS to ro, DUMP and PASS to 0.`,
		Args: cobra.RangeArgs(3, 7),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			e, err := entryFromArgs(args[1:])
			if err != nil {
				return err
			}

			res, err := a.svc.Add(cmd.Context(), service.AddOptions{UUID: args[0], Tag: a.flags.tag, Entry: *e})
			if err != nil {
				return err
			}
			a.svc.Logger().Debug("%s: %s", res.State, res.Line)
			return nil
		}),
	}
}

// entryFromArgs builds an entry from SOURCE DESTINATION [FSTYPE [OPTIONS
// [DUMP [PASS]]]], filling defaults.
func entryFromArgs(args []string) (*fstab.Entry, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("need at least SOURCE and DESTINATION")
	}

	e := &fstab.Entry{
		Source:      args[0],
		Destination: args[1],
		FSType:      defaultFSType,
		Options:     defaultOptions,
	}
	if len(args) > 2 {
		e.FSType = args[2]
	}
	if len(args) > 3 {
		e.Options = args[3]
	}

	var err error
	if len(args) > 4 {
		if e.Dump, err = strconv.Atoi(args[4]); err != nil {
			return nil, &fstab.ValidationError{Field: "dump", Err: fmt.Errorf("%w: %q is not a number", fstab.ErrInvalidEntry, args[4])}
		}
	}
	if len(args) > 5 {
		if e.Pass, err = strconv.Atoi(args[5]); err != nil {
			return nil, &fstab.ValidationError{Field: "pass", Err: fmt.Errorf("%w: %q is not a number", fstab.ErrInvalidEntry, args[5])}
		}
	}
	return e, nil
}
