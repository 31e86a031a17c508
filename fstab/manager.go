package fstab

import (
	"context"
	"errors"
	"time"

	"go-iocage/history"
	"go-iocage/log"
	"go-iocage/mount"
)

// Syncer applies a single fstab change to a running jail.
// *mount.Controller implements it.
type Syncer interface {
	MountIfActive(ctx context.Context, req mount.Request) (bool, error)
	UnmountIfActive(ctx context.Context, dest string) (bool, error)
}

// Journal records the outcome of each operation. *history.Journal implements it.
type Journal interface {
	Record(rec *history.Record) error
}

// Editor runs an interactive edit of a Store. *EditorSession implements it.
type Editor interface {
	Edit(ctx context.Context, store *Store) error
}

// Options configures a Manager. Store and Syncer are required.
type Options struct {
	UUID     string
	Tag      string // Human readable jail name, used in messages
	ToolName string // Written into "# Added by <tool>" comments

	Store   *Store
	Syncer  Syncer
	Editor  Editor
	Logger  log.LibraryLogger
	Journal Journal // Optional

	// Now returns the time stamped on new entries. Defaults to time.Now.
	Now func() time.Time
}

// Manager adds, removes and edits entries of one jail's fstab and keeps the
// jail's live mounts in step for add and remove.
//
// Operations share no state: each one reads the file fresh, mutates it
// atomically, then touches live mounts. A failed mount after a successful
// fstab change is returned as *DivergedError and the fstab change stays,
// so the jail picks it up on its next start.
type Manager struct {
	opts Options
}

// State after an add or remove
const (
	StateSynced  = "synced"  // live mounts updated
	StateSkipped = "skipped" // jail not running
)

// AddResult describes a successful Add.
type AddResult struct {
	Line  string
	State string
}

// RemoveResult describes a Remove. Found is false when no line matched;
// that is an informational outcome, not an error.
type RemoveResult struct {
	Found       bool
	Destination string
	State       string
}

// NewManager validates opts and returns a Manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	if opts.Syncer == nil {
		return nil, ErrNoSyncer
	}
	if opts.Logger == nil {
		opts.Logger = log.NoOpLogger{}
	}
	if opts.ToolName == "" {
		opts.ToolName = "iocage"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{opts: opts}, nil
}

// Name renders the jail as "<uuid> (<tag>)", or just the uuid when the tag
// adds nothing.
func (m *Manager) Name() string {
	if m.opts.Tag == "" || m.opts.Tag == m.opts.UUID {
		return m.opts.UUID
	}
	return m.opts.UUID + " (" + m.opts.Tag + ")"
}

// Add appends e to the fstab and mounts it if the jail is running.
func (m *Manager) Add(ctx context.Context, e Entry) (*AddResult, error) {
	line := Encode(e)
	rec := &history.Record{Jail: m.opts.UUID, Action: "add", Line: line, Destination: e.Destination}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := m.opts.Store.Append(e, Comment(m.opts.ToolName, m.opts.Now())); err != nil {
		m.journal(rec, history.OutcomeError, err)
		return nil, err
	}
	m.opts.Logger.Info("Successfully added mount to %s's fstab", m.Name())

	mounted, err := m.opts.Syncer.MountIfActive(ctx, mount.Request{
		Source:      e.Source,
		Destination: e.Destination,
		FSType:      e.FSType,
		Options:     e.Options,
	})
	if err != nil {
		m.opts.Logger.Error("mount of %s failed: %v", e.Destination, err)
		m.journal(rec, history.OutcomeFailed, err)
		return nil, &DivergedError{Action: "add", Jail: m.Name(), Err: err}
	}

	res := &AddResult{Line: line, State: StateSkipped}
	if mounted {
		res.State = StateSynced
	}
	m.journal(rec, res.State, nil)
	return res, nil
}

// Remove drops the first line selected by match and unmounts its
// destination if the jail is running.
func (m *Manager) Remove(ctx context.Context, match Match) (*RemoveResult, error) {
	rec := &history.Record{Jail: m.opts.UUID, Action: "remove"}
	if match.Entry != nil {
		rec.Line = Encode(*match.Entry)
	}

	dest, found, err := m.opts.Store.RemoveMatching(match)
	if err != nil {
		m.journal(rec, history.OutcomeError, err)
		return nil, err
	}
	if !found {
		m.opts.Logger.Info("No matching fstab entry.")
		m.journal(rec, history.OutcomeNotFound, nil)
		return &RemoveResult{Found: false}, nil
	}

	rec.Destination = dest
	m.opts.Logger.Info("Successfully removed mount from %s's fstab", m.Name())

	unmounted, err := m.opts.Syncer.UnmountIfActive(ctx, dest)
	if err != nil {
		m.opts.Logger.Error("umount of %s failed: %v", dest, err)
		m.journal(rec, history.OutcomeFailed, err)
		return nil, &DivergedError{Action: "remove", Jail: m.Name(), Err: err}
	}

	res := &RemoveResult{Found: true, Destination: dest, State: StateSkipped}
	if unmounted {
		res.State = StateSynced
	}
	m.journal(rec, res.State, nil)
	return res, nil
}

// Edit hands the fstab to the configured editor. Live mounts are not
// touched; the jail must be restarted, or add/remove used, for changes to
// take effect immediately.
func (m *Manager) Edit(ctx context.Context) error {
	rec := &history.Record{Jail: m.opts.UUID, Action: "edit"}
	if m.opts.Editor == nil {
		return ErrNoEditor
	}

	if err := m.opts.Editor.Edit(ctx, m.opts.Store); err != nil {
		outcome := history.OutcomeError
		var editorErr *EditorError
		if errors.As(err, &editorErr) {
			outcome = history.OutcomeAborted
		}
		m.journal(rec, outcome, err)
		return err
	}

	m.opts.Logger.Info("Successfully edited %s's fstab", m.Name())
	m.journal(rec, history.OutcomeEdited, nil)
	return nil
}

// List returns every line of the fstab.
func (m *Manager) List() ([]Line, error) {
	return m.opts.Store.ReadAll()
}

func (m *Manager) journal(rec *history.Record, outcome string, err error) {
	if m.opts.Journal == nil {
		return
	}
	rec.Outcome = outcome
	if err != nil {
		rec.Error = err.Error()
	}
	rec.Time = m.opts.Now()
	if jerr := m.opts.Journal.Record(rec); jerr != nil {
		m.opts.Logger.Warn("could not record fstab history: %v", jerr)
	}
}
