package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

// ==================== Test Helpers ====================

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "log", "fstab-history.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})
	return db
}

// ==================== Tests ====================

func TestOpenDB_CreatesDirectory(t *testing.T) {
	db := setupTestDB(t)
	if db.Path() == "" {
		t.Error("Path() should not be empty")
	}
}

func TestRecord_FillsIDAndTime(t *testing.T) {
	db := setupTestDB(t)

	rec := &Record{Jail: "web", Action: "add", Line: "/a\t/b\tnullfs\trw\t0\t0", Outcome: OutcomeSkipped}
	if err := db.Record(rec); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", rec.ID, err)
	}
	if rec.Time.IsZero() {
		t.Error("Time should be set")
	}
}

func TestRecord_Validation(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name  string
		rec   *Record
		field string
		want  error
	}{
		{"missing jail", &Record{Action: "add"}, "jail", ErrEmptyJail},
		{"missing action", &Record{Jail: "web"}, "action", ErrEmptyAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.Record(tt.rec)
			if !IsValidationError(err) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestList_OrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	for i := 0; i < 5; i++ {
		rec := &Record{
			Jail:    "web",
			Action:  "add",
			Line:    fmt.Sprintf("/src%d\t/dst%d\tnullfs\trw\t0\t0", i, i),
			Outcome: OutcomeSkipped,
			Time:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Record(rec); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}
	if err := db.Record(&Record{Jail: "db", Action: "edit", Outcome: OutcomeEdited}); err != nil {
		t.Fatal(err)
	}

	all, err := db.List("web", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len(List) = %d, want 5", len(all))
	}
	for i, rec := range all {
		want := fmt.Sprintf("/src%d\t/dst%d\tnullfs\trw\t0\t0", i, i)
		if rec.Line != want {
			t.Errorf("record %d Line = %q, want %q", i, rec.Line, want)
		}
	}

	last, err := db.List("web", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 2 || last[0].Line != all[3].Line || last[1].Line != all[4].Line {
		t.Errorf("List(limit=2) = %+v, want the two newest records oldest first", last)
	}

	none, err := db.List("unknown", 0)
	if err != nil || len(none) != 0 {
		t.Errorf("List(unknown) = %v, %v; want empty", none, err)
	}
}

func TestPurge(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Record(&Record{Jail: "web", Action: "remove", Outcome: OutcomeNotFound}); err != nil {
		t.Fatal(err)
	}
	if err := db.Purge("web"); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	records, err := db.List("web", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("len(List) after purge = %d, want 0", len(records))
	}

	// Purging a jail without history is fine
	if err := db.Purge("web"); err != nil {
		t.Errorf("second Purge failed: %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "h.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
