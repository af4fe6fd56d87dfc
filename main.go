package main

import (
	"fmt"
	"os"

	"github.com/askdb-io/askdb/cmd"
	"github.com/askdb-io/askdb/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.GetMessage(err))

		for _, suggestion := range errors.GetSuggestions(err) {
			fmt.Fprintf(os.Stderr, "  - %s\n", suggestion)
		}

		os.Exit(1)
	}
}
