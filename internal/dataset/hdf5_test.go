package dataset

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sara-nl/spparks-hpc/internal/vti"
)

func seq(markerBase float64, n int) Sequence {
	s := make(Sequence, n)
	for i := range s {
		s[i] = grid(markerBase + float64(i))
	}
	return s
}

func TestExportAndReadBack(t *testing.T) {
	ds := Dataset{
		2: []Sequence{seq(10, 2), seq(20, 2)},
		1: []Sequence{seq(30, 1)},
		0: []Sequence{{}}, // empty case, never exported
	}

	dir := t.TempDir()
	paths, err := ExportHDF5(dir, ds, ExportOptions{})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	require.Equal(t, filepath.Join(dir, "exp_1_len_1_2D.h5"), paths[0])
	require.Equal(t, filepath.Join(dir, "exp_2_len_2_2D.h5"), paths[1])

	h, err := NewH5Handler(paths[1])
	require.NoError(t, err)
	require.Equal(t, 2, h.Length())
	require.Equal(t, []int{2, 2}, h.FrameShape())

	frames, err := h.TotalFrames()
	require.NoError(t, err)
	require.Equal(t, 4, frames)

	exps, err := h.TotalExperiments()
	require.NoError(t, err)
	require.Equal(t, 2, exps)

	second, err := h.LoadExperiment(1)
	require.NoError(t, err)
	require.Len(t, second, 2)
	if diff := cmp.Diff([]float64{20, 20, 20, 20}, second[0]); diff != "" {
		t.Errorf("frame 0 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{21, 21, 21, 21}, second[1]); diff != "" {
		t.Errorf("frame 1 (-want +got):\n%s", diff)
	}
}

func TestExportShapeMismatch(t *testing.T) {
	bad := Sequence{grid(1), {Shape: []int{3, 3}, Values: make([]float64, 9)}}
	_, err := ExportHDF5(t.TempDir(), Dataset{2: []Sequence{bad}}, ExportOptions{})
	require.Error(t, err)
}

func TestNewH5HandlerBadName(t *testing.T) {
	_, err := NewH5Handler(filepath.Join(t.TempDir(), "exp_no_length.h5"))
	require.Error(t, err)
}

func TestH5HandlerAgainstFloatExport(t *testing.T) {
	ds := Dataset{1: []Sequence{{&vti.Grid{Shape: []int{2, 2}, Values: []float64{0.5, 1.5, 2.5, 3.5}}}}}

	dir := t.TempDir()
	paths, err := ExportHDF5(dir, ds, ExportOptions{FloatValues: true})
	require.NoError(t, err)
	require.Len(t, paths, 1)

	h, err := NewH5Handler(paths[0])
	require.NoError(t, err)
	frames, err := h.LoadExperiment(0)
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{0.5, 1.5, 2.5, 3.5}, frames[0]); diff != "" {
		t.Errorf("frame (-want +got):\n%s", diff)
	}
}
