// Package cmd implements the iocage-fstab command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"go-iocage/config"
	"go-iocage/log"
	"go-iocage/mount"
	"go-iocage/service"

	"github.com/spf13/cobra"
)

var Version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configDir string
	state     string
	tag       string
	debug     bool
	silent    bool
}

// app carries the flags and, once setup ran, the service.
type app struct {
	flags  globalFlags
	runner mount.Runner
	stdout io.Writer
	stderr io.Writer

	svc *service.Service
}

// NewRootCmd builds the command tree. runner executes mount, umount, jls
// and the editor; nil uses the host.
func NewRootCmd(runner mount.Runner) *cobra.Command {
	if runner == nil {
		runner = mount.ExecRunner{}
	}
	a := &app{runner: runner}

	root := &cobra.Command{
		Use:           "iocage-fstab",
		Short:         "Manage the fstab of iocage jails",
		Long:          `Add, remove, list and edit the per-jail fstab of iocage jails, keeping the live mounts of running jails in step.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.stdout = cmd.OutOrStdout()
			a.stderr = cmd.ErrOrStderr()
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configDir, "config-dir", "C", "", "Config base directory (default /usr/local/etc)")
	pf.BoolVarP(&a.flags.debug, "debug", "d", false, "Debug verbosity")
	pf.BoolVar(&a.flags.silent, "silent", false, "Suppress console output")
	pf.StringVar(&a.flags.state, "state", "jls", "Jail state backend (jls, stopped)")
	pf.StringVar(&a.flags.tag, "tag", "", "Jail tag shown in messages")

	root.AddCommand(
		newAddCmd(a),
		newRemoveCmd(a),
		newEditCmd(a),
		newListCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCmd(nil)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) setup() error {
	cfg, err := config.LoadConfig(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.flags.debug {
		cfg.Debug = true
	}
	if a.flags.silent {
		cfg.Silent = true
	}

	var console log.LibraryLogger = &log.ConsoleLogger{Out: a.stdout, Err: a.stderr, Verbose: cfg.Debug}
	if cfg.Silent {
		console = log.NoOpLogger{}
	}

	svc, err := service.NewService(cfg, service.Options{
		Console:      console,
		Runner:       a.runner,
		StateBackend: a.flags.state,
	})
	if err != nil {
		return err
	}
	a.svc = svc
	return nil
}

// run wraps a subcommand body so the service is closed on every path,
// including errors.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return fn(cmd, args)
	}
}

func (a *app) close() {
	if a.svc != nil {
		if err := a.svc.Close(); err != nil {
			fmt.Fprintf(a.stderr, "Warning: %v\n", err)
		}
		a.svc = nil
	}
}
