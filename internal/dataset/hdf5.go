package dataset

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/scigolib/hdf5"
	"golang.org/x/sync/errgroup"
)

// ExportOptions configures HDF5 export.
type ExportOptions struct {
	// FloatValues stores frames as Float64 instead of Int32. Spin fields
	// are integer grain identifiers, so Int32 is the default.
	FloatValues bool
}

// ExportHDF5 writes one HDF5 container per non-empty bucket into dir and
// returns the paths written, in ascending bucket order.
//
// Each file holds an "images" dataset of dims [n*L, frame shape...]: the L
// frames of each of the bucket's n sequences, concatenated in encounter
// order, plus a small "shape" dataset so readers can recover the frame shape
// without parsing dataset metadata. File names follow the
// exp_<n>_len_<L>_<2D|3D>.h5 convention the downstream loaders key on.
//
// Buckets are independent files, so they are written in parallel; each
// goroutine owns exactly one output path.
func ExportHDF5(dir string, ds Dataset, opts ExportOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("dataset: export: %w", err)
	}

	lengths := make([]int, 0, len(ds))
	for l := range ds {
		if l > 0 && len(ds[l]) > 0 {
			lengths = append(lengths, l)
		}
	}
	sort.Ints(lengths)

	paths := make([]string, len(lengths))
	var g errgroup.Group
	for i, l := range lengths {
		i, l := i, l
		g.Go(func() error {
			path, err := exportBucket(dir, l, ds[l], opts)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range paths {
		log.Printf("[dataset] exported %s", p)
	}
	return paths, nil
}

func exportBucket(dir string, length int, seqs []Sequence, opts ExportOptions) (string, error) {
	shape := seqs[0][0].Shape
	tag := "2D"
	if len(shape) == 3 {
		tag = "3D"
	}
	path := filepath.Join(dir, fmt.Sprintf("exp_%d_len_%d_%s.h5", len(seqs), length, tag))

	frameLen := 1
	for _, d := range shape {
		frameLen *= d
	}

	dims := make([]uint64, 0, len(shape)+1)
	dims = append(dims, uint64(len(seqs)*length))
	for _, d := range shape {
		dims = append(dims, uint64(d))
	}

	flat := make([]float64, 0, len(seqs)*length*frameLen)
	for _, seq := range seqs {
		for _, grid := range seq {
			if len(grid.Values) != frameLen {
				return "", fmt.Errorf("dataset: export bucket %d: frame shape %v does not match %v",
					length, grid.Shape, shape)
			}
			flat = append(flat, grid.Values...)
		}
	}

	fw, err := hdf5.CreateForWrite(path, hdf5.CreateTruncate)
	if err != nil {
		return "", fmt.Errorf("dataset: export %s: %w", path, err)
	}

	dtype := hdf5.Int32
	if opts.FloatValues {
		dtype = hdf5.Float64
	}
	images, err := fw.CreateDataset("/images", dtype, dims)
	if err != nil {
		fw.Close()
		return "", fmt.Errorf("dataset: export %s: %w", path, err)
	}
	if opts.FloatValues {
		err = images.Write(flat)
	} else {
		ints := make([]int32, len(flat))
		for i, v := range flat {
			ints[i] = int32(v)
		}
		err = images.Write(ints)
	}
	if err != nil {
		fw.Close()
		return "", fmt.Errorf("dataset: export %s: %w", path, err)
	}

	shapeDS, err := fw.CreateDataset("/shape", hdf5.Int64, []uint64{uint64(len(shape))})
	if err != nil {
		fw.Close()
		return "", fmt.Errorf("dataset: export %s: %w", path, err)
	}
	shape64 := make([]int64, len(shape))
	for i, d := range shape {
		shape64[i] = int64(d)
	}
	if err := shapeDS.Write(shape64); err != nil {
		fw.Close()
		return "", fmt.Errorf("dataset: export %s: %w", path, err)
	}

	if err := fw.Close(); err != nil {
		return "", fmt.Errorf("dataset: export %s: %w", path, err)
	}
	return path, nil
}
