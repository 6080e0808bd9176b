// Command finance-ingest watches a directory for JSON transaction batch files,
// stores their records and serves a read-only API over the stored data.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
