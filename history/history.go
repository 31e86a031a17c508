// Package history keeps a journal of fstab changes per jail in a bbolt
// database, so an operator can see what was added, removed or edited and
// whether the live mount change went through.
package history

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// BucketHistory is the top-level bucket; each jail gets a nested bucket.
const BucketHistory = "fstab_history"

// Outcomes recorded for an operation
const (
	OutcomeSynced   = "synced"    // fstab changed and live mounts updated
	OutcomeSkipped  = "skipped"   // fstab changed, jail not running
	OutcomeFailed   = "failed"    // fstab changed, mount/umount failed
	OutcomeNotFound = "not-found" // remove matched nothing
	OutcomeEdited   = "edited"    // editor session committed
	OutcomeAborted  = "aborted"   // editor exited non-zero
	OutcomeError    = "error"     // fstab could not be changed
)

// Record is one journal entry.
type Record struct {
	ID          string    `json:"id"`
	Jail        string    `json:"jail"`
	Action      string    `json:"action"` // "add" | "remove" | "edit"
	Line        string    `json:"line,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Outcome     string    `json:"outcome"`
	Error       string    `json:"error,omitempty"`
	Time        time.Time `json:"time"`
}

// DB wraps a bbolt database holding the journal.
type DB struct {
	db   *bolt.DB
	path string
}

// OpenDB opens or creates the journal at path, creating its directory.
func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &DatabaseError{Op: "mkdir", Err: err}
	}

	bdb, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, &DatabaseError{Op: "open", Err: err}
	}

	err = bdb.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketHistory)); err != nil {
			return &DatabaseError{Op: "create bucket", Bucket: BucketHistory, Err: err}
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}

	return &DB{db: bdb, path: path}, nil
}

// Close closes the database. It is safe to call more than once.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	err := db.db.Close()
	db.db = nil
	return err
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Record appends rec to its jail's journal. ID and Time are filled in when
// empty.
func (db *DB) Record(rec *Record) error {
	if rec.Jail == "" {
		return &ValidationError{Field: "jail", Err: ErrEmptyJail}
	}
	if rec.Action == "" {
		return &ValidationError{Field: "action", Err: ErrEmptyAction}
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return &DatabaseError{Op: "marshal", Err: err}
	}

	return db.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketHistory))
		if root == nil {
			return &DatabaseError{Op: "get bucket", Bucket: BucketHistory, Err: ErrBucketNotFound}
		}
		bucket, err := root.CreateBucketIfNotExists([]byte(rec.Jail))
		if err != nil {
			return &DatabaseError{Op: "create bucket", Bucket: rec.Jail, Err: err}
		}

		// Sequence keys keep records in insertion order
		seq, err := bucket.NextSequence()
		if err != nil {
			return &DatabaseError{Op: "sequence", Bucket: rec.Jail, Err: err}
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		if err := bucket.Put(key, data); err != nil {
			return &DatabaseError{Op: "put", Bucket: rec.Jail, Err: err}
		}
		return nil
	})
}

// List returns the most recent records of a jail, oldest first. limit <= 0
// returns everything.
func (db *DB) List(jail string, limit int) ([]Record, error) {
	if jail == "" {
		return nil, &ValidationError{Field: "jail", Err: ErrEmptyJail}
	}

	var records []Record
	err := db.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketHistory))
		if root == nil {
			return &DatabaseError{Op: "get bucket", Bucket: BucketHistory, Err: ErrBucketNotFound}
		}
		bucket := root.Bucket([]byte(jail))
		if bucket == nil {
			return nil
		}

		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return &DatabaseError{Op: "unmarshal", Bucket: jail, Err: err}
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cursor walked newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Purge deletes the journal of a jail.
func (db *DB) Purge(jail string) error {
	if jail == "" {
		return &ValidationError{Field: "jail", Err: ErrEmptyJail}
	}
	return db.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketHistory))
		if root == nil {
			return &DatabaseError{Op: "get bucket", Bucket: BucketHistory, Err: ErrBucketNotFound}
		}
		if root.Bucket([]byte(jail)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(jail))
	})
}
