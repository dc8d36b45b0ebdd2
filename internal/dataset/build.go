package dataset

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sara-nl/spparks-hpc/internal/archive"
	"github.com/sara-nl/spparks-hpc/internal/vti"
)

// BuildOptions configures an archive-to-dataset run.
type BuildOptions struct {
	// Field selects the scalar attribute to decode; empty means the first
	// one each file carries.
	Field string

	// Slice2D drops flat axes so single-layer output decodes as 2D.
	Slice2D bool
}

// Result is what one archive-processing run produced.
type Result struct {
	Dataset Dataset
	Cases   []CaseSummary
}

// Build converts a result archive into a length-bucketed dataset in one
// sequential pass: directory entries flush the previous case, snapshot
// entries are extracted and buffered, everything else is skipped without
// noise (large archives would otherwise flood the log).
//
// A malformed snapshot aborts the run: silently dropping it would corrupt
// the temporal ordering of its case. Truncated archives yield the cases
// completed before the break, consistent with archive.Walk.
func Build(tarPath string, opts BuildOptions) (*Result, error) {
	var readOpts []vti.ReadOption
	if opts.Field != "" {
		readOpts = append(readOpts, vti.WithField(opts.Field))
	}
	if opts.Slice2D {
		readOpts = append(readOpts, vti.WithSlice2D())
	}

	// All spilled entries live under one run-scoped directory, removed on
	// every exit path; per-entry removal below just bounds disk usage.
	tmpDir, err := os.MkdirTemp("", "spparks-extract-")
	if err != nil {
		return nil, fmt.Errorf("dataset: build: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	col := NewCollector()
	err = archive.Walk(tarPath, func(hdr *tar.Header, r io.Reader) error {
		if hdr.Typeflag == tar.TypeDir {
			col.StartCase(archive.CaseName(hdr.Name))
			return nil
		}
		snap, err := archive.ExtractSnapshot(hdr, r, tmpDir, readOpts...)
		if errors.Is(err, archive.ErrNotSnapshot) {
			return nil
		}
		if snap != nil && snap.TempPath != "" {
			defer os.Remove(snap.TempPath)
		}
		if err != nil {
			return fmt.Errorf("dataset: %s: %w", hdr.Name, err)
		}
		col.Add(snap.Time, snap.Grid)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{Dataset: col.Finish(), Cases: col.Cases()}, nil
}
