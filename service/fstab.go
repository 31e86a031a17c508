package service

import (
	"context"

	"go-iocage/fstab"
	"go-iocage/history"
)

// Add places opts.Entry under the jail root, appends it to the jail's fstab
// and mounts it if the jail is running.
func (s *Service) Add(ctx context.Context, opts AddOptions) (*fstab.AddResult, error) {
	m, err := s.Manager(opts.UUID, opts.Tag)
	if err != nil {
		return nil, err
	}

	e := opts.Entry
	e.Destination = s.cfg.ResolveDestination(opts.UUID, e.Destination)
	return m.Add(ctx, e)
}

// Remove drops the first matching line and unmounts it if the jail is
// running. A result with Found false is informational, not an error.
func (s *Service) Remove(ctx context.Context, opts RemoveOptions) (*fstab.RemoveResult, error) {
	m, err := s.Manager(opts.UUID, opts.Tag)
	if err != nil {
		return nil, err
	}

	match := fstab.Match{Index: opts.Index}
	if opts.Entry != nil {
		e := *opts.Entry
		e.Destination = s.cfg.ResolveDestination(opts.UUID, e.Destination)
		match.Entry = &e
	}
	return m.Remove(ctx, match)
}

// Edit opens the jail's fstab in the configured editor.
func (s *Service) Edit(ctx context.Context, uuid, tag string) error {
	m, err := s.Manager(uuid, tag)
	if err != nil {
		return err
	}
	return m.Edit(ctx)
}

// List returns the entries of a jail's fstab, numbered the way Remove
// counts them. Pass-through lines are left out.
func (s *Service) List(uuid string) ([]ListedEntry, error) {
	m, err := s.Manager(uuid, "")
	if err != nil {
		return nil, err
	}

	lines, err := m.List()
	if err != nil {
		return nil, err
	}

	entries := make([]ListedEntry, 0, len(lines))
	for _, l := range lines {
		if l.Entry == nil {
			continue
		}
		entries = append(entries, ListedEntry{Index: len(entries), Line: l.Text, Entry: *l.Entry})
	}
	return entries, nil
}

// History returns recorded operations of a jail, oldest first.
func (s *Service) History(opts HistoryOptions) ([]history.Record, error) {
	if opts.UUID == "" {
		return nil, ErrNoJail
	}
	return s.journal.List(opts.UUID, opts.Limit)
}

// PurgeHistory deletes every recorded operation of a jail.
func (s *Service) PurgeHistory(uuid string) error {
	if uuid == "" {
		return ErrNoJail
	}
	if err := s.journal.Purge(uuid); err != nil {
		return err
	}
	s.logger.Info("Purged fstab history of %s", uuid)
	return nil
}
