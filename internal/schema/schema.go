// Package schema builds point-in-time views of the database structure used
// to ground model prompts. A Snapshot is immutable once built; refresh
// happens by building a new one, never by mutating in place.
package schema

import (
	"time"

	"github.com/askdb-io/askdb/internal/store"
)

// Column describes one column of a user table
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	Nullable   bool
	Default    *string
}

// ForeignKey describes an outgoing reference from a table
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Table holds everything the prompt needs to describe one table: ordered
// columns, outgoing references, the current row count, and a few
// representative rows
type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
	RowCount    int64
	Samples     []store.Row
}

// Snapshot is a point-in-time view of the whole schema. Tables preserves
// introspection order so renderings are stable for a given snapshot.
type Snapshot struct {
	Tables  []Table
	BuiltAt time.Time

	// Failed lists tables that could not be introspected and were omitted
	Failed []string
}

// Len returns the number of tables in the snapshot
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}

	return len(s.Tables)
}

// Lookup returns the table with the given name
func (s *Snapshot) Lookup(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}

	return nil, false
}

// Partial reports whether any table was dropped from the snapshot during
// introspection
func (s *Snapshot) Partial() bool {
	return len(s.Failed) > 0
}
