package fstab

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMatch is returned when a removal names neither an entry nor an index
	ErrEmptyMatch = errors.New("no entry or index to match")

	// ErrNoStore is returned when a Manager is built without a Store
	ErrNoStore = errors.New("fstab store not configured")

	// ErrNoSyncer is returned when a Manager is built without a mount Syncer
	ErrNoSyncer = errors.New("mount syncer not configured")

	// ErrNoEditor is returned by Edit when no editor is configured
	ErrNoEditor = errors.New("editor not configured")
)

// TableIOError reports that the fstab could not be read, locked or replaced.
// The file on disk is unchanged when this error is returned.
type TableIOError struct {
	Op   string // "read", "write", "lock", "stage"
	Path string
	Err  error
}

func (e *TableIOError) Error() string {
	return fmt.Sprintf("fstab %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TableIOError) Unwrap() error {
	return e.Err
}

// EditorError reports an editor session that did not exit cleanly. The
// fstab is untouched.
type EditorError struct {
	Editor   string // Program base name
	ExitCode int
	Err      error // Start failure, if any
}

func (e *EditorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("an error occurred within %s: %v", e.Editor, e.Err)
	}
	return fmt.Sprintf("an error occurred within %s (exit status %d)", e.Editor, e.ExitCode)
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

// DivergedError is returned when the fstab was changed but the matching
// live mount change failed. The fstab change is kept.
type DivergedError struct {
	Action string // "add" or "remove"
	Jail   string
	Err    error
}

func (e *DivergedError) Error() string {
	return fmt.Sprintf("fstab of %s updated (%s) but live mount state differs: %v", e.Jail, e.Action, e.Err)
}

func (e *DivergedError) Unwrap() error {
	return e.Err
}
