package mount

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Result holds the outcome of a captured command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner spawns external programs. It separates when to run mount, umount,
// jls or an editor from how the process is started, so policy code can be
// tested with MockRunner.
type Runner interface {
	// Run executes program with args and captures stdout and stderr.
	// A non-zero exit status is reported in Result, not as an error; err is
	// set only when the program could not be started.
	Run(ctx context.Context, program string, args ...string) (*Result, error)

	// RunInteractive executes program attached to the caller's terminal
	// and blocks until it exits.
	RunInteractive(ctx context.Context, program string, args ...string) (int, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct{}

// Compile-time interface check
var _ Runner = ExecRunner{}

func (ExecRunner) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("run %s: %w", program, err)
	}
	return res, nil
}

func (ExecRunner) RunInteractive(ctx context.Context, program string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("run %s: %w", program, err)
	}
	return 0, nil
}
