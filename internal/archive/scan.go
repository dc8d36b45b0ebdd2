package archive

import (
	"archive/tar"
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultManifestName is where Scan writes the case list by default.
const DefaultManifestName = "metadata"

// Scan walks the archive once and counts case directories, writing each
// directory's final path component to a manifest in outDir, one per line in
// encounter order. It returns the directory count.
//
// The manifest line format is "<name>\t\n"; the trailing tab is load-bearing
// for the cluster-side readers that split on whitespace, so keep it.
//
// A truncated archive yields the count and manifest accumulated up to the
// break (Walk logs the truncation). An archive that cannot be opened at all
// is an *OpenError and no manifest is written.
func Scan(tarPath, outDir, manifestName string) (int, error) {
	if manifestName == "" {
		manifestName = DefaultManifestName
	}

	var names []string
	err := Walk(tarPath, func(hdr *tar.Header, _ io.Reader) error {
		if hdr.Typeflag != tar.TypeDir {
			return nil
		}
		names = append(names, CaseName(hdr.Name))
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("archive: scan %s: %w", tarPath, err)
	}
	manifestPath := filepath.Join(outDir, manifestName)
	f, err := os.Create(manifestPath)
	if err != nil {
		return 0, fmt.Errorf("archive: scan %s: %w", tarPath, err)
	}
	w := bufio.NewWriter(f)
	for _, name := range names {
		w.WriteString(name)
		w.WriteString("\t\n")
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("archive: write manifest %s: %w", manifestPath, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("archive: write manifest %s: %w", manifestPath, err)
	}

	return len(names), nil
}

// CaseName reduces a tar directory entry name to the case identifier: the
// final path component, with the trailing slash tar puts on directories
// stripped first.
func CaseName(entry string) string {
	return path.Base(strings.TrimSuffix(entry, "/"))
}
