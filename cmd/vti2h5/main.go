// Command vti2h5 converts a tar.gz archive of SPPARKS case directories into
// length-bucketed HDF5 datasets. It writes a manifest of the case names it
// found, one .h5 file per distinct sequence length, and optionally records
// the run in a SQLite catalog.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/sara-nl/spparks-hpc/internal/archive"
	"github.com/sara-nl/spparks-hpc/internal/catalog"
	"github.com/sara-nl/spparks-hpc/internal/dataset"
)

func main() {
	archivePath := flag.String("archive", "", "Path to the tar.gz results archive (required)")
	outDir := flag.String("out", ".", "Output directory for the manifest and .h5 files")
	field := flag.String("field", "", "Cell data array to extract (default: Spin)")
	slice2D := flag.Bool("slice2d", false, "Collapse unit axes so planar snapshots load as 2D")
	floatVals := flag.Bool("float", false, "Store values as Float64 instead of Int32")
	catalogPath := flag.String("catalog", "", "Optional SQLite catalog to record this run in")
	flag.Parse()

	if *archivePath == "" {
		fmt.Fprintln(os.Stderr, "vti2h5: -archive is required")
		flag.Usage()
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("[vti2h5] create output directory: %v", err)
	}

	caseCount, err := archive.Scan(*archivePath, *outDir, archive.DefaultManifestName)
	if err != nil {
		log.Fatalf("[vti2h5] scan %s: %v", *archivePath, err)
	}
	log.Printf("[vti2h5] %s: %d case directories", *archivePath, caseCount)

	result, err := dataset.Build(*archivePath, dataset.BuildOptions{
		Field:   *field,
		Slice2D: *slice2D,
	})
	if err != nil {
		log.Fatalf("[vti2h5] build dataset: %v", err)
	}

	files, err := dataset.ExportHDF5(*outDir, result.Dataset, dataset.ExportOptions{
		FloatValues: *floatVals,
	})
	if err != nil {
		log.Fatalf("[vti2h5] export: %v", err)
	}

	if *catalogPath != "" {
		recordRun(*catalogPath, *archivePath, caseCount, result.Dataset)
	}

	printSummary(result, files)
}

// recordRun is best-effort; a broken catalog must not fail a finished
// conversion.
func recordRun(path, archivePath string, caseCount int, ds dataset.Dataset) {
	db, err := catalog.Open(path)
	if err != nil {
		log.Printf("[vti2h5] catalog unavailable: %v", err)
		return
	}
	defer db.Close()

	buckets := make(map[int]int, len(ds))
	for length, seqs := range ds {
		buckets[length] = len(seqs)
	}
	id, err := db.RecordRun(archivePath, caseCount, buckets)
	if err != nil {
		log.Printf("[vti2h5] catalog record failed: %v", err)
		return
	}
	log.Printf("[vti2h5] recorded run %s", id)
}

func printSummary(result *dataset.Result, files []string) {
	lengths := make([]int, 0, len(result.Dataset))
	for length := range result.Dataset {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)

	fmt.Printf("cases: %d\n", len(result.Cases))
	for _, length := range lengths {
		fmt.Printf("  length %d: %d sequence(s)\n", length, len(result.Dataset[length]))
	}
	for _, f := range files {
		fmt.Printf("wrote %s\n", filepath.Base(f))
	}
}
