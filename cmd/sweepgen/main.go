// Command sweepgen expands a YAML parameter-space file into the full list of
// case names for a campaign, split across chunked config files for batch
// submission.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sara-nl/spparks-hpc/internal/sweep"
)

func main() {
	paramsPath := flag.String("params", "", "YAML parameter-space file (required)")
	outDir := flag.String("out", ".", "Output directory for config files")
	chunks := flag.Int("chunks", 1, "Number of config file chunks to split the case list into")
	flag.Parse()

	if *paramsPath == "" {
		fmt.Fprintln(os.Stderr, "sweepgen: -params is required")
		flag.Usage()
		os.Exit(1)
	}
	if *chunks < 1 {
		log.Fatalf("[sweepgen] -chunks must be at least 1, got %d", *chunks)
	}

	params, err := sweep.LoadParams(*paramsPath)
	if err != nil {
		log.Fatalf("[sweepgen] %v", err)
	}

	rows := sweep.HAZPermutations(params)
	names := sweep.CaseNames(params, rows)
	log.Printf("[sweepgen] %d valid HAZ permutations, %d cases", len(rows), len(names))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("[sweepgen] create output directory: %v", err)
	}
	files, err := sweep.WriteChunks(names, *outDir, *chunks)
	if err != nil {
		log.Fatalf("[sweepgen] write chunks: %v", err)
	}
	for _, f := range files {
		fmt.Printf("wrote %s\n", filepath.Base(f))
	}
}
