// Package main provides the segsim command, which scores predicted section
// boundaries of clinical notes against gold annotations.
//
// # Basic Usage
//
// Score a prediction file that also carries the gold boundaries:
//
//	segsim evaluate -p predictions.json -o scores.json
//
// Score against a separate reference file and keep a run history:
//
//	segsim evaluate -p predictions.json -r gold.json --store runs.db
//	segsim history --store runs.db
package main

import (
	"fmt"
	"os"
)

// Build information - populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
