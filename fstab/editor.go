package fstab

import (
	"context"
	"os"
	"path/filepath"

	"go-iocage/log"
	"go-iocage/mount"
)

// EditorSession lets the user edit a jail's fstab in an external editor.
//
// The fstab is copied to a private temporary file and the editor runs
// against the copy in the foreground. Only a zero exit status commits the
// copy back, through Store.ReplaceAll; the edited text is taken as is. The
// temporary file is removed either way.
type EditorSession struct {
	Editor  string
	Runner  mount.Runner
	TempDir string // "" uses os.TempDir()
	Logger  log.LibraryLogger
}

// Edit runs one editing session against store's file.
func (s *EditorSession) Edit(ctx context.Context, store *Store) error {
	logger := s.Logger
	if logger == nil {
		logger = log.NoOpLogger{}
	}

	data, err := store.ReadFile()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.TempDir, "fstab-*.iocage")
	if err != nil {
		return &TableIOError{Op: "stage", Path: store.Path(), Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &TableIOError{Op: "stage", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &TableIOError{Op: "stage", Path: tmpPath, Err: err}
	}

	name := filepath.Base(s.Editor)
	logger.Debug("editing %s via %s", tmpPath, s.Editor)

	code, err := s.Runner.RunInteractive(ctx, s.Editor, tmpPath)
	if err != nil {
		return &EditorError{Editor: name, ExitCode: code, Err: err}
	}
	if code != 0 {
		return &EditorError{Editor: name, ExitCode: code}
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return &TableIOError{Op: "stage", Path: tmpPath, Err: err}
	}
	return store.ReplaceAll(edited)
}
