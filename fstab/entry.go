// Package fstab manages the per-jail fstab file of iocage jails.
//
// The file holds one mount rule per line, tab separated:
//
//	source	destination	fstype	options	dump	pass # Added by iocage on 2024-01-02 15:04:05
//
// Lines that do not look like entries (blank lines, comments, anything with
// fewer than two fields) are carried through every rewrite untouched.
// Each operation re-reads the file; nothing is cached between calls.
package fstab

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entry is one mount rule of a jail's fstab.
type Entry struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	FSType      string `json:"fstype" yaml:"fstype"`
	Options     string `json:"options" yaml:"options"`
	Dump        int    `json:"dump" yaml:"dump"`
	Pass        int    `json:"pass" yaml:"pass"`
}

// ErrInvalidEntry is wrapped by ValidationError.
var ErrInvalidEntry = errors.New("invalid fstab entry")

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks that source, destination and fstype are set. Options may
// be empty.
func (e Entry) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"source", e.Source},
		{"destination", e.Destination},
		{"fstype", e.FSType},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Err: fmt.Errorf("%w: %s is empty", ErrInvalidEntry, f.name)}
		}
		if strings.ContainsAny(f.value, "\t\n#") {
			return &ValidationError{Field: f.name, Err: fmt.Errorf("%w: %s contains a tab, newline or '#'", ErrInvalidEntry, f.name)}
		}
	}
	if strings.ContainsAny(e.Options, " \t\n#") {
		return &ValidationError{Field: "options", Err: fmt.Errorf("%w: options contain whitespace or '#'", ErrInvalidEntry)}
	}
	return nil
}

// String returns the encoded line.
func (e Entry) String() string {
	return Encode(e)
}

// Encode joins the six fields with tabs. The options column is always
// present, even when empty.
func Encode(e Entry) string {
	return strings.Join([]string{
		e.Source,
		e.Destination,
		e.FSType,
		e.Options,
		strconv.Itoa(e.Dump),
		strconv.Itoa(e.Pass),
	}, "\t")
}

// Decode parses a line. It returns nil for lines with fewer than two
// fields once the comment is removed; those lines are pass-through.
//
// Lines with exactly six tab separated columns are read positionally so an
// empty options column survives. Anything else is split on whitespace and
// missing trailing fields are left at their zero value.
func Decode(line string) *Entry {
	stripped := StripComment(line)

	var fields []string
	if cols := strings.Split(stripped, "\t"); len(cols) == 6 {
		fields = cols
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if fields[0] == "" || fields[1] == "" {
			fields = strings.Fields(stripped)
		}
	} else {
		fields = strings.Fields(stripped)
	}

	if len(fields) < 2 {
		return nil
	}

	e := &Entry{Source: fields[0], Destination: fields[1]}
	if len(fields) > 2 {
		e.FSType = fields[2]
	}
	if len(fields) > 3 {
		e.Options = fields[3]
	}
	if len(fields) > 4 {
		e.Dump, _ = strconv.Atoi(fields[4])
	}
	if len(fields) > 5 {
		e.Pass, _ = strconv.Atoi(fields[5])
	}
	return e
}

// StripComment drops everything from the first '#' and trims surrounding
// whitespace and the line terminator.
func StripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// CommentTimeFormat is the timestamp layout of the "Added by" comment.
const CommentTimeFormat = "2006-01-02 15:04:05"

// Comment builds the trailing comment written with new entries.
func Comment(tool string, t time.Time) string {
	return fmt.Sprintf("# Added by %s on %s", tool, t.UTC().Format(CommentTimeFormat))
}
