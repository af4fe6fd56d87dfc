package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/askdb-io/askdb/internal/store"
)

// NewSeededStore opens a throwaway SQLite database in a temp directory and
// loads the sample practice data into it. The store is closed automatically
// when the test finishes.
func NewSeededStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "practice_test.db")

	opts := store.DefaultOptions()
	opts.CreateIfMissing = true

	st, err := store.Open(path, opts)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}

	t.Cleanup(func() { st.Close() })

	if _, err := st.Seed(context.Background()); err != nil {
		t.Fatalf("failed to seed test store: %v", err)
	}

	return st
}

// NewEmptyStore opens a throwaway SQLite database with no tables in it
func NewEmptyStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "empty_test.db")

	opts := store.DefaultOptions()
	opts.CreateIfMissing = true

	st, err := store.Open(path, opts)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}

	t.Cleanup(func() { st.Close() })

	return st
}
