// Package archive walks gzip-compressed tar archives of SPPARKS output.
//
// A result archive holds one directory per simulated case, each containing
// the case's per-timestep .vti.N snapshot files in whatever order tar
// happened to pack them. The format has no index, so everything here works
// in a single sequential pass over the stream.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/sara-nl/spparks-hpc/internal/vti"
)

// snapshotPattern matches the timestep suffix SPPARKS appends to dump files,
// e.g. "vHpdV_80_0_20_UR_y/IN1003d.vti.7".
var snapshotPattern = regexp.MustCompile(`\.vti\.(\d+)`)

// ErrNotSnapshot reports that an archive entry is not a timestep file. It is
// a classification outcome, not a failure: callers skip the entry.
var ErrNotSnapshot = errors.New("archive: entry is not a .vti snapshot")

// OpenError reports an archive that cannot be opened as a gzip stream at
// all, as opposed to one that ends early. Mid-stream truncation is handled
// inside Walk; an OpenError is fatal to the run.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("archive: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Snapshot is one extracted timestep: the parsed time index, the decoded
// grid, and the temporary file the entry bytes were spilled to. Removing
// TempPath is the caller's job; the extractor leaves it in place so a decode
// can be retried against the same bytes.
type Snapshot struct {
	Time     int
	Grid     *vti.Grid
	TempPath string
}

// ParseTimeIndex extracts the timestep from an entry name. The archive
// stream order is not time order; this suffix is the only truth.
func ParseTimeIndex(name string) (int, bool) {
	m := snapshotPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractSnapshot spills the current entry to a temporary file under dir and
// decodes it through the vti codec. Entries whose name lacks the .vti.N
// suffix yield ErrNotSnapshot. Decode errors propagate as-is; the temporary
// file still exists in that case and it is the caller who must remove it on
// every exit path.
func ExtractSnapshot(hdr *tar.Header, r io.Reader, dir string, opts ...vti.ReadOption) (*Snapshot, error) {
	n, ok := ParseTimeIndex(hdr.Name)
	if !ok {
		return nil, ErrNotSnapshot
	}

	tmp, err := os.CreateTemp(dir, "snap-*.vti")
	if err != nil {
		return nil, fmt.Errorf("archive: extract %s: %w", hdr.Name, err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("archive: extract %s: %w", hdr.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("archive: extract %s: %w", hdr.Name, err)
	}

	g, err := vti.ReadFile(tmp.Name(), opts...)
	if err != nil {
		return &Snapshot{Time: n, TempPath: tmp.Name()}, err
	}
	return &Snapshot{Time: n, Grid: g, TempPath: tmp.Name()}, nil
}
