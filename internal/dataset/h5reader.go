package dataset

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/scigolib/hdf5"
)

// lengthPattern matches the sequence length an exported container encodes in
// its filename, e.g. "exp_6_len_28_2D.h5".
var lengthPattern = regexp.MustCompile(`len_(\d+)`)

// H5Handler is a flat indexed-frame reader over one exported HDF5 container.
// The container stores every sequence of one length back to back in an
// "images" dataset, so experiment i occupies frames [i*L, (i+1)*L).
type H5Handler struct {
	path   string
	length int
	shape  []int
}

// NewH5Handler opens path's metadata. The sequence length comes from the
// len_N filename component; the frame shape from the "shape" dataset written
// at export time.
func NewH5Handler(path string) (*H5Handler, error) {
	m := lengthPattern.FindStringSubmatch(path)
	if m == nil {
		return nil, fmt.Errorf("dataset: %s: no len_N component in filename", path)
	}
	length, err := strconv.Atoi(m[1])
	if err != nil || length <= 0 {
		return nil, fmt.Errorf("dataset: %s: bad sequence length %q", path, m[1])
	}

	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	shapeDS, err := findDataset(f, "shape")
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	raw, err := shapeDS.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: read shape: %w", path, err)
	}
	shape := make([]int, len(raw))
	for i, v := range raw {
		shape[i] = int(v)
	}

	return &H5Handler{path: path, length: length, shape: shape}, nil
}

// Length returns the sequence length shared by every experiment in the file.
func (h *H5Handler) Length() int { return h.length }

// FrameShape returns the per-frame shape.
func (h *H5Handler) FrameShape() []int { return append([]int(nil), h.shape...) }

// TotalFrames returns the number of frames stored in the container.
func (h *H5Handler) TotalFrames() (int, error) {
	f, err := hdf5.Open(h.path)
	if err != nil {
		return 0, fmt.Errorf("dataset: open %s: %w", h.path, err)
	}
	defer f.Close()

	images, err := findDataset(f, "images")
	if err != nil {
		return 0, fmt.Errorf("dataset: %s: %w", h.path, err)
	}
	values, err := images.Read()
	if err != nil {
		return 0, fmt.Errorf("dataset: %s: read images: %w", h.path, err)
	}
	frameLen := 1
	for _, d := range h.shape {
		frameLen *= d
	}
	return len(values) / frameLen, nil
}

// TotalExperiments returns the number of sequences stored in the container.
func (h *H5Handler) TotalExperiments() (int, error) {
	frames, err := h.TotalFrames()
	if err != nil {
		return 0, err
	}
	return frames / h.length, nil
}

// LoadExperiment reads experiment idx (0-based) and returns its frames, each
// a flat row-major buffer of FrameShape.
func (h *H5Handler) LoadExperiment(idx int) ([][]float64, error) {
	if idx < 0 {
		return nil, fmt.Errorf("dataset: experiment index %d out of range", idx)
	}

	f, err := hdf5.Open(h.path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", h.path, err)
	}
	defer f.Close()

	images, err := findDataset(f, "images")
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", h.path, err)
	}

	// Hyperslab over the leading (frame) axis only.
	start := make([]uint64, len(h.shape)+1)
	start[0] = uint64(idx * h.length)
	count := make([]uint64, len(h.shape)+1)
	count[0] = uint64(h.length)
	for i, d := range h.shape {
		count[i+1] = uint64(d)
	}

	raw, err := images.ReadSlice(start, count)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: read experiment %d: %w", h.path, idx, err)
	}
	flat, err := toFloat64s(raw)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: experiment %d: %w", h.path, idx, err)
	}

	frameLen := 1
	for _, d := range h.shape {
		frameLen *= d
	}
	if len(flat) != h.length*frameLen {
		return nil, fmt.Errorf("dataset: %s: experiment %d: got %d values, want %d",
			h.path, idx, len(flat), h.length*frameLen)
	}

	frames := make([][]float64, h.length)
	for i := range frames {
		frames[i] = flat[i*frameLen : (i+1)*frameLen]
	}
	return frames, nil
}

// findDataset locates a dataset by name anywhere in the file.
func findDataset(f *hdf5.File, name string) (*hdf5.Dataset, error) {
	var found *hdf5.Dataset
	f.Walk(func(path string, obj hdf5.Object) {
		if ds, ok := obj.(*hdf5.Dataset); ok && ds.Name() == name {
			found = ds
		}
	})
	if found == nil {
		return nil, fmt.Errorf("no %q dataset", name)
	}
	return found, nil
}

// toFloat64s widens whatever numeric slice a hyperslab read produced.
func toFloat64s(v any) ([]float64, error) {
	switch vv := v.(type) {
	case []float64:
		return vv, nil
	case []float32:
		out := make([]float64, len(vv))
		for i, x := range vv {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(vv))
		for i, x := range vv {
			out[i] = float64(x)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(vv))
		for i, x := range vv {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported element type %T", v)
	}
}
