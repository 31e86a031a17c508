package service

import (
	"errors"

	"go-iocage/fstab"
)

// ErrNoJail is returned when an operation names no jail.
var ErrNoJail = errors.New("no jail given")

// AddOptions contains options for the Add service.
type AddOptions struct {
	UUID  string
	Tag   string      // Shown in messages
	Entry fstab.Entry // Destination as seen inside the jail
}

// RemoveOptions contains options for the Remove service. Exactly one of
// Entry and Index is normally set; with both, the first line matching
// either one is removed.
type RemoveOptions struct {
	UUID  string
	Tag   string
	Entry *fstab.Entry // Destination as seen inside the jail
	Index *int         // Zero based, as returned by List
}

// ListedEntry is one entry of a jail's fstab with the index that
// RemoveOptions.Index expects.
type ListedEntry struct {
	Index       int    `json:"index" yaml:"index"`
	Line        string `json:"line" yaml:"line"`
	fstab.Entry `yaml:",inline"`
}

// HistoryOptions contains options for the History service.
type HistoryOptions struct {
	UUID  string
	Limit int // Newest N records; 0 for all
}
