package history

// Journal is the history database as used by short-lived commands. Each
// call opens the database, does its work and closes it again, so the bbolt
// file lock is held for one transaction only. Another invocation, such as
// one waiting on an interactive editor, never keeps the journal locked.
type Journal struct {
	path string
}

// NewJournal returns a Journal for the database at path. Nothing is opened
// until the first call.
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// Record appends rec, see DB.Record.
func (j *Journal) Record(rec *Record) error {
	return j.with(func(db *DB) error {
		return db.Record(rec)
	})
}

// List returns the most recent records of a jail, see DB.List.
func (j *Journal) List(jail string, limit int) ([]Record, error) {
	var records []Record
	err := j.with(func(db *DB) error {
		var err error
		records, err = db.List(jail, limit)
		return err
	})
	return records, err
}

// Purge deletes the journal of a jail, see DB.Purge.
func (j *Journal) Purge(jail string) error {
	return j.with(func(db *DB) error {
		return db.Purge(jail)
	})
}

func (j *Journal) with(fn func(db *DB) error) error {
	db, err := OpenDB(j.path)
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}
