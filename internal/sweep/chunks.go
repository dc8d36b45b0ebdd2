package sweep

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// WriteConfigFile writes every case name to a single config file at path,
// one per line. Lines end in "\t\n"; the launcher scripts split on
// whitespace and expect the tab.
func WriteConfigFile(path string, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sweep: write %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, name := range names {
		w.WriteString(name)
		w.WriteString("\t\n")
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("sweep: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("sweep: write %s: %w", path, err)
	}
	return nil
}

// WriteChunks splits names into n chunks and writes config_file_1..n under
// dir. The remainder lands in the last chunk, so every name is written
// exactly once. Chunks are independent files written in parallel, one
// goroutine per path. Returns the written paths in chunk order.
func WriteChunks(names []string, dir string, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sweep: chunk count %d must be positive", n)
	}
	if len(names) == 0 {
		return nil, nil
	}
	if n > len(names) {
		n = len(names)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sweep: chunks: %w", err)
	}

	size := len(names) / n
	paths := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		lo := i * size
		hi := lo + size
		if i == n-1 {
			hi = len(names)
		}
		path := filepath.Join(dir, fmt.Sprintf("config_file_%d", i+1))
		paths[i] = path
		chunk := names[lo:hi]
		g.Go(func() error {
			return WriteConfigFile(path, chunk)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
