package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/askdb-io/askdb/internal/config"
	"github.com/askdb-io/askdb/internal/testutil"
)

func TestRunStatsWithStore(t *testing.T) {
	st := testutil.NewSeededStore(t)

	cfg := &config.Config{
		Cache: config.CacheConfig{
			SchemaCapacity: 32,
			ResultCapacity: 100,
		},
	}

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runStatsWithStore(context.Background(), st, cfg)

	// Restore stdout and get output
	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if err != nil {
		t.Fatalf("runStatsWithStore() error = %v", err)
	}

	contains := []string{
		"Database Statistics",
		"Tables: 8",
		"Total Rows: 20",
		"Rows by Table:",
		"bank_statements",
		"Schema snapshots: 32",
		"Query results: 100",
	}
	for _, expected := range contains {
		if !strings.Contains(output, expected) {
			t.Errorf("runStatsWithStore() output does not contain %q\nOutput: %s", expected, output)
		}
	}
}
