package vti

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip3D(t *testing.T) {
	shape := []int{4, 3, 2}
	values := make([]float64, NumValues(shape))
	for i := range values {
		values[i] = float64((i * 7) % 13)
	}

	path := filepath.Join(t.TempDir(), "snap.vti.0")
	if err := WriteFile(path, values, shape); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	g, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff(shape, g.Shape); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(values, g.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if g.Field != DefaultField {
		t.Errorf("field = %q, want %q", g.Field, DefaultField)
	}
	// Point dimensions exceed the cell extent by one per axis.
	if g.Dims != [3]int{5, 4, 3} {
		t.Errorf("dims = %v, want [5 4 3]", g.Dims)
	}
}

func TestRoundTrip2D(t *testing.T) {
	shape := []int{3, 5}
	values := make([]float64, NumValues(shape))
	for i := range values {
		values[i] = 0.25 * float64(i)
	}

	path := filepath.Join(t.TempDir(), "slice.vti.3")
	err := WriteFile(path, values, shape,
		WithFloatValues(),
		WithSpacing(0.5, 0.5, 1),
		WithOrigin(-1, -1, 0))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// A 2D array is stored with a flat third axis; reading it back needs
	// the slice option to drop that axis again.
	g, err := ReadFile(path, WithSlice2D())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff(shape, g.Shape); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(values, g.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if g.Spacing != [3]float64{0.5, 0.5, 1} {
		t.Errorf("spacing = %v", g.Spacing)
	}
	if g.Origin != [3]float64{-1, -1, 0} {
		t.Errorf("origin = %v", g.Origin)
	}

	// Without the slice option the third cell axis has extent 0 and the
	// value count cannot match.
	if _, err := ReadFile(path); err == nil {
		t.Error("ReadFile without WithSlice2D: want error, got nil")
	}
}

func TestReadFileCountMismatch(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<VTKFile type="ImageData" version="1.0" byte_order="LittleEndian">
  <ImageData WholeExtent="0 2 0 2 0 1" Origin="0 0 0" Spacing="1 1 1">
    <Piece Extent="0 2 0 2 0 1">
      <CellData Scalars="Spin">
        <DataArray type="Int32" Name="Spin" format="ascii">
          1 2 3
        </DataArray>
      </CellData>
    </Piece>
  </ImageData>
</VTKFile>
`
	path := filepath.Join(t.TempDir(), "bad.vti.0")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	// Cell shape is 2x2x1 = 4 values, the array has 3.
	_, err := ReadFile(path)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("want *FormatError, got %v", err)
	}
	if ferr.Path != path {
		t.Errorf("error path = %q, want %q", ferr.Path, path)
	}
}

func TestReadFilePointDataFallback(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<VTKFile type="ImageData" version="1.0" byte_order="LittleEndian">
  <ImageData WholeExtent="0 1 0 1 0 0" Origin="0 0 0" Spacing="1 1 1">
    <Piece Extent="0 1 0 1 0 0">
      <PointData Scalars="Temp">
        <DataArray type="Float64" Name="Temp" format="ascii">
          1 2 3 4
        </DataArray>
      </PointData>
    </Piece>
  </ImageData>
</VTKFile>
`
	path := filepath.Join(t.TempDir(), "points.vti.0")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	// No cell arrays: the codec falls back to point data, whose shape is
	// the point dimensions unmodified.
	g, err := ReadFile(path, WithSlice2D())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff([]int{2, 2}, g.Shape); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
	if g.Field != "Temp" {
		t.Errorf("field = %q, want Temp", g.Field)
	}
}

func TestReadFileNamedField(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<VTKFile type="ImageData" version="1.0" byte_order="LittleEndian">
  <ImageData WholeExtent="0 2 0 1 0 1" Origin="0 0 0" Spacing="1 1 1">
    <Piece Extent="0 2 0 1 0 1">
      <CellData Scalars="Spin">
        <DataArray type="Int32" Name="Spin" format="ascii">
          1 2
        </DataArray>
        <DataArray type="Int32" Name="Mobility" format="ascii">
          5 6
        </DataArray>
      </CellData>
    </Piece>
  </ImageData>
</VTKFile>
`
	path := filepath.Join(t.TempDir(), "multi.vti.0")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadFile(path, WithField("Mobility"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff([]float64{5, 6}, g.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	// Unnamed selection takes the first array.
	g, err = ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if g.Field != "Spin" {
		t.Errorf("default field = %q, want Spin", g.Field)
	}

	if _, err := ReadFile(path, WithField("Velocity")); err == nil {
		t.Error("missing named field: want error, got nil")
	}
}

func TestReadFileNoArrays(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<VTKFile type="ImageData" version="1.0" byte_order="LittleEndian">
  <ImageData WholeExtent="0 1 0 1 0 1" Origin="0 0 0" Spacing="1 1 1">
    <Piece Extent="0 1 0 1 0 1">
      <CellData>
      </CellData>
      <PointData>
      </PointData>
    </Piece>
  </ImageData>
</VTKFile>
`
	path := filepath.Join(t.TempDir(), "empty.vti.0")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadFile(path)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("want *FormatError, got %v", err)
	}
}

func TestValueRange(t *testing.T) {
	g := &Grid{Shape: []int{2, 2}, Values: []float64{3, -1, 8, 2}}
	min, max := g.ValueRange()
	if min != -1 || max != 8 {
		t.Errorf("range = (%v, %v), want (-1, 8)", min, max)
	}
}

func TestTopSlice(t *testing.T) {
	// 2x2x2 grid, row-major (x, y, z): top layer is the odd indices.
	g := &Grid{
		Shape:  []int{2, 2, 2},
		Values: []float64{0, 1, 2, 3, 4, 5, 6, 7},
	}
	m, err := g.TopSlice()
	if err != nil {
		t.Fatalf("TopSlice: %v", err)
	}
	want := [][]float64{{1, 3}, {5, 7}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if got := m.At(i, j); got != want[i][j] {
				t.Errorf("slice[%d][%d] = %v, want %v", i, j, got, want[i][j])
			}
		}
	}

	if _, err := (&Grid{Shape: []int{2, 2}}).TopSlice(); err == nil {
		t.Error("2D grid: want error, got nil")
	}
}

func TestWriteFileValidation(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFile(filepath.Join(dir, "x.vti"), []float64{1}, []int{1, 1, 1, 1}); err == nil {
		t.Error("4-axis shape: want error, got nil")
	}
	if err := WriteFile(filepath.Join(dir, "y.vti"), []float64{1, 2, 3}, []int{2, 2}); err == nil {
		t.Error("count mismatch: want error, got nil")
	}
}
