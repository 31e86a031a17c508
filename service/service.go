// Package service provides the fstab operations behind the iocage-fstab CLI.
//
// The service layer sits between the CLI (cmd/) and the library packages
// (fstab, mount, jail, history):
//
//   - CLI layer (cmd/): argument parsing, output formatting
//   - Service layer (service/): owns shared resources, wires a Manager per jail
//   - Library layer: core functionality with no terminal coupling
//
// All output goes through the LibraryLogger interface so the service can be
// driven from tests without a terminal.
package service

import (
	"fmt"

	"go-iocage/config"
	"go-iocage/fstab"
	"go-iocage/history"
	"go-iocage/jail"
	"go-iocage/log"
	"go-iocage/mount"
)

// Options selects the collaborators of a Service. The zero value uses the
// host: jls(8) for jail state and os/exec for mount, umount and the editor.
type Options struct {
	Console      log.LibraryLogger // Operator output; nil discards it
	Runner       mount.Runner      // nil uses mount.ExecRunner
	StateBackend string            // Registered jail state backend; "" means "jls"
}

// Service coordinates fstab management across jails.
//
// It manages the lifecycle of the file log and builds a fresh fstab.Manager
// for every operation. The history journal opens its database per call, so
// a Service left open (an edit waiting on the user, say) does not block
// other invocations.
//
// Usage:
//
//	cfg, _ := config.LoadConfig("")
//	svc, err := service.NewService(cfg, service.Options{Console: log.NewConsoleLogger(false)})
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//
//	res, err := svc.Add(ctx, service.AddOptions{UUID: "web", Entry: e})
type Service struct {
	cfg     *config.Config
	logger  log.LibraryLogger
	fileLog *log.Logger
	journal *history.Journal
	runner  mount.Runner
	state   jail.State
}

// NewService opens the file log below cfg.LogsPath. The history database is
// not opened here; a journal that cannot be written only produces a warning
// when an operation records its outcome. The caller must Close the service.
func NewService(cfg *config.Config, opts Options) (*Service, error) {
	if opts.Runner == nil {
		opts.Runner = mount.ExecRunner{}
	}
	if opts.Console == nil {
		opts.Console = log.NoOpLogger{}
	}
	if opts.StateBackend == "" {
		opts.StateBackend = "jls"
	}

	state, err := jail.New(opts.StateBackend, cfg, opts.Runner)
	if err != nil {
		return nil, err
	}

	fileLog, err := log.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Service{
		cfg:     cfg,
		logger:  log.Tee{opts.Console, fileLog},
		fileLog: fileLog,
		journal: history.NewJournal(cfg.Database.Path),
		runner:  opts.Runner,
		state:   state,
	}, nil
}

// Close releases the file log.
func (s *Service) Close() error {
	if s.fileLog != nil {
		s.fileLog.Close()
		s.fileLog = nil
	}
	return nil
}

// Config returns the service's configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Logger returns the logger shared by every operation.
func (s *Service) Logger() log.LibraryLogger {
	return s.logger
}

// Journal returns the history journal.
func (s *Service) Journal() *history.Journal {
	return s.journal
}

// Manager wires an fstab.Manager for one jail.
func (s *Service) Manager(uuid, tag string) (*fstab.Manager, error) {
	if uuid == "" {
		return nil, ErrNoJail
	}

	ctl := mount.NewController(uuid, s.state, s.runner, s.logger)
	ctl.MountCmd = s.cfg.MountCmd
	ctl.UmountCmd = s.cfg.UmountCmd

	return fstab.NewManager(fstab.Options{
		UUID:     uuid,
		Tag:      tag,
		ToolName: s.cfg.ToolName,
		Store:    fstab.NewStore(s.cfg.FstabPath(uuid), s.cfg.UseLock),
		Syncer:   ctl,
		Editor: &fstab.EditorSession{
			Editor: s.cfg.Editor,
			Runner: s.runner,
			Logger: s.logger,
		},
		Logger:  s.logger,
		Journal: s.journal,
	})
}
