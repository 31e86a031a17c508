package fstab

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/moby/sys/atomicwriter"
)

// Line is one line of the fstab. Entry is nil for pass-through lines.
type Line struct {
	Text  string `json:"text" yaml:"text"`
	Entry *Entry `json:"entry,omitempty" yaml:"entry,omitempty"`
}

// Match selects the line to remove. A line matches when its text, with the
// comment removed, equals Encode(*Entry), or when it is the Index-th entry
// line still present in the file (zero based). Either criterion may be nil.
type Match struct {
	Entry *Entry
	Index *int
}

// MatchEntry matches by textual equality with e.
func MatchEntry(e Entry) Match {
	return Match{Entry: &e}
}

// MatchIndex matches the i-th entry of the current file.
func MatchIndex(i int) Match {
	return Match{Index: &i}
}

func (m Match) String() string {
	var parts []string
	if m.Entry != nil {
		parts = append(parts, fmt.Sprintf("entry %q", Encode(*m.Entry)))
	}
	if m.Index != nil {
		parts = append(parts, fmt.Sprintf("index %d", *m.Index))
	}
	return strings.Join(parts, " or ")
}

// Store reads and atomically rewrites one jail's fstab.
//
// Every rewrite goes to a temporary file in the same directory which is
// then renamed over the original, so a crash leaves either the old or the
// new file, never a partial one. With UseLock set, the whole
// read-modify-replace sequence holds an flock on <path>.lock.
type Store struct {
	path    string
	UseLock bool

	// newWriter is replaced in tests to simulate a crash before the rename.
	newWriter func(filename string, perm os.FileMode) (io.WriteCloser, error)
}

// NewStore returns a Store for the fstab at path.
func NewStore(path string, useLock bool) *Store {
	return &Store{
		path:      path,
		UseLock:   useLock,
		newWriter: atomicwriter.New,
	}
}

// Path returns the fstab path.
func (s *Store) Path() string {
	return s.path
}

// ReadAll returns every line in file order.
func (s *Store) ReadAll() ([]Line, error) {
	raw, _, err := s.readRaw()
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		text := strings.TrimRight(r, "\r\n")
		lines = append(lines, Line{Text: text, Entry: Decode(text)})
	}
	return lines, nil
}

// Entries returns the decodable lines only, in the order Match.Index counts them.
func (s *Store) Entries() ([]Entry, error) {
	lines, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, l := range lines {
		if l.Entry != nil {
			entries = append(entries, *l.Entry)
		}
	}
	return entries, nil
}

// Append writes e, followed by comment when non-empty, as a new last line.
// Existing lines are copied byte for byte.
func (s *Store) Append(e Entry, comment string) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	raw, perm, err := s.readRaw()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, r := range raw {
		buf.WriteString(r)
	}
	if n := len(raw); n > 0 && !strings.HasSuffix(raw[n-1], "\n") {
		buf.WriteByte('\n')
	}

	buf.WriteString(Encode(e))
	if comment != "" {
		buf.WriteString(" " + comment)
	}
	buf.WriteByte('\n')

	return s.replace(buf.Bytes(), perm)
}

// RemoveMatching drops the first line selected by m and returns the
// destination of the removed entry. found is false, and the file is left
// untouched, when no line matched.
//
// Index counts entry lines that are still in the file, so after a removal
// the indices of every later entry shift down by one. Callers removing
// several entries by index must list the table again in between.
func (s *Store) RemoveMatching(m Match) (dest string, found bool, err error) {
	if m.Entry == nil && m.Index == nil {
		return "", false, &ValidationError{Field: "match", Err: ErrEmptyMatch}
	}

	unlock, err := s.lock()
	if err != nil {
		return "", false, err
	}
	defer unlock()

	raw, perm, err := s.readRaw()
	if err != nil {
		return "", false, err
	}

	var want string
	if m.Entry != nil {
		want = Encode(*m.Entry)
	}

	var buf bytes.Buffer
	index := 0
	for _, r := range raw {
		e := Decode(r)
		if e != nil && !found {
			textMatch := m.Entry != nil && StripComment(r) == want
			indexMatch := m.Index != nil && index == *m.Index
			if textMatch || indexMatch {
				found = true
				dest = e.Destination
				continue
			}
		}
		buf.WriteString(r)
		if e != nil {
			index++
		}
	}

	if !found {
		return "", false, nil
	}
	if err := s.replace(buf.Bytes(), perm); err != nil {
		return "", false, err
	}
	return dest, true, nil
}

// ReplaceAll atomically replaces the whole file with content. The content
// is not validated.
func (s *Store) ReplaceAll(content []byte) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	perm := os.FileMode(0644)
	info, err := os.Stat(s.path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return &TableIOError{Op: "read", Path: s.path, Err: err}
	}
	return s.replace(content, perm)
}

// ReadFile returns the raw file content.
func (s *Store) ReadFile() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &TableIOError{Op: "read", Path: s.path, Err: err}
	}
	return data, nil
}

// readRaw returns the lines with their terminators, plus the file mode.
func (s *Store) readRaw() ([]string, os.FileMode, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, 0, &TableIOError{Op: "read", Path: s.path, Err: err}
	}
	data, err := s.ReadFile()
	if err != nil {
		return nil, 0, err
	}
	return splitLines(string(data)), info.Mode().Perm(), nil
}

func (s *Store) replace(content []byte, perm os.FileMode) error {
	w, err := s.newWriter(s.path, perm)
	if err != nil {
		return &TableIOError{Op: "write", Path: s.path, Err: err}
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return &TableIOError{Op: "write", Path: s.path, Err: err}
	}
	if err := w.Close(); err != nil {
		return &TableIOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func (s *Store) lock() (func(), error) {
	if !s.UseLock {
		return func() {}, nil
	}
	return lockFile(s.path)
}

// splitLines splits after each '\n', keeping the terminator. A final line
// without '\n' is kept as is.
func splitLines(data string) []string {
	if data == "" {
		return nil
	}
	lines := strings.SplitAfter(data, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
