package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/askdb-io/askdb/internal/testutil"
)

func TestRunSeedWithStore(t *testing.T) {
	st := testutil.NewEmptyStore(t)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runSeedWithStore(context.Background(), st)

	// Restore stdout and get output
	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if err != nil {
		t.Fatalf("runSeedWithStore() error = %v", err)
	}

	contains := []string{
		"Database created at",
		"Seeded 8 tables:",
		"bank_statements",
		"4 rows",
		"contract_procedures",
		"2 rows",
	}
	for _, expected := range contains {
		if !strings.Contains(output, expected) {
			t.Errorf("runSeedWithStore() output does not contain %q\nOutput: %s", expected, output)
		}
	}
}
