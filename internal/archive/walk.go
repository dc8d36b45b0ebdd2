package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/klauspost/compress/gzip"
)

// WalkFunc is called once per archive entry, in stream order. The reader is
// positioned at the entry's data and is only valid until the next entry.
type WalkFunc func(hdr *tar.Header, r io.Reader) error

// Walk iterates every entry of a gzip-compressed tar archive exactly once,
// in stream order.
//
// Archives written by interrupted jobs routinely end mid-entry. That is not
// fatal here: on truncation Walk logs what happened and returns nil, so the
// caller keeps everything accumulated up to the break. A stream that is not
// valid gzip at all yields *OpenError instead. Errors returned by fn abort
// the walk unchanged.
func Walk(tarPath string, fn WalkFunc) error {
	f, err := os.Open(tarPath)
	if err != nil {
		return &OpenError{Path: tarPath, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return &OpenError{Path: tarPath, Err: err}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if isTruncation(err) {
			log.Printf("[archive] %s: stream truncated, keeping partial results (%v)", tarPath, err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read %s: %w", tarPath, err)
		}
		if err := fn(hdr, tr); err != nil {
			if isTruncation(err) {
				log.Printf("[archive] %s: stream truncated in %s, keeping partial results (%v)", tarPath, hdr.Name, err)
				return nil
			}
			return err
		}
	}
}

// isTruncation classifies mid-stream end-of-data: the deflate stream ran out
// of bytes or the trailing gzip checksum never arrived.
func isTruncation(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, gzip.ErrChecksum)
}
