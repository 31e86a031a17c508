// Package jail answers whether an iocage jail is currently running.
//
// Backends are registered by name so the CLI can pick one from a flag:
//   - "jls": asks jls(8) for the jail's JID (default)
//   - "stopped": always reports the jail as stopped, for editing the fstab
//     of a jail without touching live mounts
//   - "mock": testing backend
//
// Usage example:
//
//	state, err := jail.New("jls", cfg, mount.ExecRunner{})
//	if err != nil {
//	    return err
//	}
//	running, jid, err := state.IsRunning(ctx, "web")
package jail

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go-iocage/config"
	"go-iocage/mount"
)

// State is implemented by every backend. It satisfies mount.StateQuery.
type State interface {
	IsRunning(ctx context.Context, uuid string) (bool, int, error)
}

// Compile-time interface check
var _ mount.StateQuery = State(nil)

// NewStateFunc is a constructor function for State implementations.
type NewStateFunc func(cfg *config.Config, runner mount.Runner) State

var backends = make(map[string]NewStateFunc)

// Register registers a state backend. Panics if name is already registered.
func Register(name string, fn NewStateFunc) {
	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("jail state backend already registered: %s", name))
	}
	backends[name] = fn
}

// New creates the State backend registered under name.
func New(backend string, cfg *config.Config, runner mount.Runner) (State, error) {
	fn, ok := backends[backend]
	if !ok {
		return nil, &ErrUnknownBackend{Backend: backend}
	}
	return fn(cfg, runner), nil
}

// ErrUnknownBackend is returned when requesting an unregistered backend.
type ErrUnknownBackend struct {
	Backend string
}

func (e *ErrUnknownBackend) Error() string {
	return fmt.Sprintf("unknown jail state backend: %s", e.Backend)
}

// ErrQueryFailed indicates jls could not be executed at all.
type ErrQueryFailed struct {
	UUID string
	Err  error
}

func (e *ErrQueryFailed) Error() string {
	return fmt.Sprintf("cannot query state of jail %s: %v", e.UUID, e.Err)
}

func (e *ErrQueryFailed) Unwrap() error {
	return e.Err
}

func init() {
	Register("jls", func(cfg *config.Config, runner mount.Runner) State {
		j := &JLS{Runner: runner, Program: "jls"}
		if cfg != nil && cfg.JlsCmd != "" {
			j.Program = cfg.JlsCmd
		}
		return j
	})
	Register("stopped", func(*config.Config, mount.Runner) State {
		return Stopped{}
	})
}

// JLS queries jls(8) for the running jail named ioc-<uuid>.
type JLS struct {
	Runner  mount.Runner
	Program string
}

// HostName returns the name iocage gives the kernel jail. Dots are not
// allowed in jail names and are replaced by underscores.
func HostName(uuid string) string {
	return "ioc-" + strings.ReplaceAll(uuid, ".", "_")
}

// IsRunning runs `jls -j ioc-<uuid> jid`. A non-zero exit means the jail
// does not exist in the kernel, which is reported as not running.
func (j *JLS) IsRunning(ctx context.Context, uuid string) (bool, int, error) {
	res, err := j.Runner.Run(ctx, j.Program, "-j", HostName(uuid), "jid")
	if err != nil {
		return false, 0, &ErrQueryFailed{UUID: uuid, Err: err}
	}
	if res.ExitCode != 0 {
		return false, 0, nil
	}

	jid, err := strconv.Atoi(strings.TrimSpace(res.Stdout))
	if err != nil || jid <= 0 {
		return false, 0, nil
	}
	return true, jid, nil
}

// Stopped reports every jail as not running.
type Stopped struct{}

func (Stopped) IsRunning(ctx context.Context, uuid string) (bool, int, error) {
	return false, 0, nil
}
