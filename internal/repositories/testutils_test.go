package repositories_test

import (
	"context"
	"io"
	"testing"

	_ "embed"

	"github.com/41243144/system-question-bank/internal/sqlite"
	"github.com/41243144/system-question-bank/internal/testhelpers"
)

//go:embed testdata/fixtures.sql
var testFixtures string

// newTestDB creates a new in-memory database seeded with the test fixtures.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()

	db, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatal(err)
		}
	})

	if _, err = db.ReadWrite.Exec(testFixtures); err != nil {
		t.Fatal(err)
	}

	return db
}

// newEmptyTestDB creates a new in-memory database without fixtures.
func newEmptyTestDB(t *testing.T) *sqlite.Database {
	t.Helper()

	db, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatal(err)
		}
	})

	return db
}
