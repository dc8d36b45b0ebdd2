package vti

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// WriteOption adjusts how an array is encoded.
type WriteOption func(*writeConfig)

type writeConfig struct {
	field   string
	spacing [3]float64
	origin  [3]float64
	float64s bool
}

// WithFieldName sets the scalar attribute name (default "Spin").
func WithFieldName(name string) WriteOption {
	return func(c *writeConfig) { c.field = name }
}

// WithSpacing sets the per-axis cell size (default 1 1 1).
func WithSpacing(x, y, z float64) WriteOption {
	return func(c *writeConfig) { c.spacing = [3]float64{x, y, z} }
}

// WithOrigin sets the grid corner coordinate (default 0 0 0).
func WithOrigin(x, y, z float64) WriteOption {
	return func(c *writeConfig) { c.origin = [3]float64{x, y, z} }
}

// WithFloatValues writes the array as Float64 instead of Int32. Spin fields
// are integer grain identifiers, so Int32 is the default.
func WithFloatValues() WriteOption {
	return func(c *writeConfig) { c.float64s = true }
}

// WriteFile encodes a dense 2D or 3D cell array as an ASCII .vti file.
//
// The stored dimensions are point counts: one more than the cell extent along
// every axis (a 2D r x c array becomes dimensions r+1 x c+1 x 1). The values
// themselves are written as CellData and no point array is emitted at all;
// this mirrors how the simulator's own files are laid out, and is what
// ReadFile's cell-data selection expects back.
func WriteFile(path string, values []float64, shape []int, opts ...WriteOption) error {
	cfg := writeConfig{
		field:   DefaultField,
		spacing: [3]float64{1, 1, 1},
	}
	for _, o := range opts {
		o(&cfg)
	}

	if len(shape) != 2 && len(shape) != 3 {
		return fmt.Errorf("vti: write %s: shape must have 2 or 3 axes, got %d", path, len(shape))
	}
	if want := NumValues(shape); len(values) != want {
		return fmt.Errorf("vti: write %s: %d values for shape %v (want %d)", path, len(values), shape, want)
	}

	// Point dimensions exceed the cell extent by one per axis; a 2D array
	// gets a flat third axis.
	var dims [3]int
	if len(shape) == 2 {
		dims = [3]int{shape[0] + 1, shape[1] + 1, 1}
	} else {
		dims = [3]int{shape[0] + 1, shape[1] + 1, shape[2] + 1}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vti: write %s: %w", path, err)
	}
	w := bufio.NewWriter(f)

	arrayType := "Int32"
	if cfg.float64s {
		arrayType = "Float64"
	}
	extent := fmt.Sprintf("0 %d 0 %d 0 %d", dims[0]-1, dims[1]-1, dims[2]-1)

	fmt.Fprintln(w, `<?xml version="1.0"?>`)
	fmt.Fprintln(w, `<VTKFile type="ImageData" version="1.0" byte_order="LittleEndian">`)
	fmt.Fprintf(w, "  <ImageData WholeExtent=\"%s\" Origin=\"%s\" Spacing=\"%s\">\n",
		extent, tripleString(cfg.origin), tripleString(cfg.spacing))
	fmt.Fprintf(w, "    <Piece Extent=\"%s\">\n", extent)
	fmt.Fprintln(w, "      <PointData>")
	fmt.Fprintln(w, "      </PointData>")
	fmt.Fprintf(w, "      <CellData Scalars=\"%s\">\n", cfg.field)
	fmt.Fprintf(w, "        <DataArray type=\"%s\" Name=\"%s\" format=\"ascii\">\n", arrayType, cfg.field)

	// One row of cells per line keeps the files diffable; VTK only needs
	// whitespace separation.
	rowLen := shape[len(shape)-1]
	for i, v := range values {
		if i%rowLen == 0 {
			w.WriteString("         ")
		}
		w.WriteByte(' ')
		if cfg.float64s {
			w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		} else {
			w.WriteString(strconv.FormatInt(int64(v), 10))
		}
		if (i+1)%rowLen == 0 {
			w.WriteByte('\n')
		}
	}

	fmt.Fprintln(w, "        </DataArray>")
	fmt.Fprintln(w, "      </CellData>")
	fmt.Fprintln(w, "    </Piece>")
	fmt.Fprintln(w, "  </ImageData>")
	fmt.Fprintln(w, "</VTKFile>")

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("vti: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("vti: write %s: %w", path, err)
	}
	return nil
}

// WriteGridFile re-encodes a decoded Grid, preserving its spacing, origin and
// field name.
func WriteGridFile(path string, g *Grid, opts ...WriteOption) error {
	base := []WriteOption{
		WithFieldName(g.Field),
		WithSpacing(g.Spacing[0], g.Spacing[1], g.Spacing[2]),
		WithOrigin(g.Origin[0], g.Origin[1], g.Origin[2]),
	}
	return WriteFile(path, g.Values, g.Shape, append(base, opts...)...)
}

func tripleString(t [3]float64) string {
	return strconv.FormatFloat(t[0], 'g', -1, 64) + " " +
		strconv.FormatFloat(t[1], 'g', -1, 64) + " " +
		strconv.FormatFloat(t[2], 'g', -1, 64)
}
