// Package mount keeps a running jail's live mounts in step with its fstab.
//
// Mounting is done by the host's mount(8) and umount(8); this package only
// decides whether to invoke them and how to read their outcome. A mount is
// considered failed when the program writes anything to stderr, whatever
// its exit status. Some mount helpers print non-fatal warnings on stderr and
// still exit 0; treating those as failures is the established iocage
// behaviour and callers rely on it.
package mount

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go-iocage/log"
)

// StateQuery reports whether a jail is running and its JID.
// Implementations must be side-effect free.
type StateQuery interface {
	IsRunning(ctx context.Context, uuid string) (bool, int, error)
}

// Request describes one filesystem to attach.
type Request struct {
	Source      string
	Destination string
	FSType      string
	Options     string
}

// Args returns the mount(8) argument vector. -o is left out when there are
// no options.
func (r Request) Args() []string {
	args := []string{"-t", r.FSType}
	if r.Options != "" {
		args = append(args, "-o", r.Options)
	}
	return append(args, r.Source, r.Destination)
}

// MountError reports diagnostic output from mount(8) or umount(8).
type MountError struct {
	Op      string // "mount", "umount", "mkdir", "state"
	Path    string // Destination path
	Program string // Program that reported the failure
	Stderr  string // Diagnostic text, verbatim
	Err     error  // Underlying error (start failure, mkdir error)
}

func (e *MountError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %s", e.Op, e.Path, strings.TrimSpace(e.Stderr))
}

func (e *MountError) Unwrap() error {
	return e.Err
}

// IsUnmount reports whether the failure came from the unmount side.
func (e *MountError) IsUnmount() bool {
	return e.Op == "umount"
}

// Controller mounts and unmounts fstab entries of one jail.
type Controller struct {
	uuid   string
	state  StateQuery
	runner Runner
	logger log.LibraryLogger

	MountCmd  string
	UmountCmd string
}

// NewController creates a Controller for the jail identified by uuid.
func NewController(uuid string, state StateQuery, runner Runner, logger log.LibraryLogger) *Controller {
	if logger == nil {
		logger = log.NoOpLogger{}
	}
	return &Controller{
		uuid:      uuid,
		state:     state,
		runner:    runner,
		logger:    logger,
		MountCmd:  "mount",
		UmountCmd: "umount",
	}
}

// MountIfActive mounts req when the jail is running. A stopped jail is not
// an error: its fstab is applied the next time it starts.
func (c *Controller) MountIfActive(ctx context.Context, req Request) (bool, error) {
	running, err := c.running(ctx, req.Destination)
	if err != nil || !running {
		return false, err
	}

	if err := os.MkdirAll(req.Destination, 0755); err != nil {
		return false, &MountError{Op: "mkdir", Path: req.Destination, Err: err}
	}

	args := req.Args()
	c.logger.Debug("%s %s", c.MountCmd, strings.Join(args, " "))
	return true, c.run(ctx, "mount", c.MountCmd, req.Destination, args)
}

// UnmountIfActive force-unmounts dest when the jail is running.
func (c *Controller) UnmountIfActive(ctx context.Context, dest string) (bool, error) {
	running, err := c.running(ctx, dest)
	if err != nil || !running {
		return false, err
	}

	c.logger.Debug("%s -f %s", c.UmountCmd, dest)
	return true, c.run(ctx, "umount", c.UmountCmd, dest, []string{"-f", dest})
}

func (c *Controller) running(ctx context.Context, dest string) (bool, error) {
	running, jid, err := c.state.IsRunning(ctx, c.uuid)
	if err != nil {
		return false, &MountError{Op: "state", Path: dest, Err: err}
	}
	if !running {
		c.logger.Debug("jail %s is not running, skipping live mount change for %s", c.uuid, dest)
		return false, nil
	}
	c.logger.Debug("jail %s is running as JID %d", c.uuid, jid)
	return true, nil
}

func (c *Controller) run(ctx context.Context, op, program, dest string, args []string) error {
	res, err := c.runner.Run(ctx, program, args...)
	if err != nil {
		return &MountError{Op: op, Path: dest, Program: program, Err: err}
	}
	if res.Stderr != "" {
		return &MountError{Op: op, Path: dest, Program: program, Stderr: res.Stderr}
	}
	return nil
}
