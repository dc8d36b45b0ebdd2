// Package vti reads and writes VTK XML ImageData (.vti) files carrying a
// single scalar field on a regular 2D or 3D grid, and converts between the
// on-disk representation and a dense row-major value buffer.
//
// SPPARKS emits one .vti file per dump timestep. Each file describes the grid
// through point dimensions; the scalar field of interest ("Spin") is attached
// to cells, so the cell extent along every axis is one less than the point
// count. The codec keeps that point/cell asymmetry internal: callers only ever
// see the logical cell (or point) shape.
package vti

import (
	"fmt"
)

// DefaultField is the scalar attribute SPPARKS writes for grain identity.
const DefaultField = "Spin"

// Grid is one decoded volumetric snapshot.
type Grid struct {
	// Dims are the point counts per axis, exactly as stored on disk.
	// Cell extents are Dims-1 per axis.
	Dims [3]int

	// Spacing is the cell size per axis.
	Spacing [3]float64

	// Origin is the coordinate of the grid corner.
	Origin [3]float64

	// Field is the name of the scalar attribute the values came from.
	Field string

	// Shape is the logical shape of Values: 2 or 3 axes, row-major.
	Shape []int

	// Values holds one scalar per cell (or per point, for point-data
	// files), row-major over Shape.
	Values []float64
}

// NumValues returns the element count implied by a logical shape.
func NumValues(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// FormatError reports a malformed or unreadable .vti file.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vti: %s: %s", e.Path, e.Reason)
}

func formatErrf(path, format string, args ...any) *FormatError {
	return &FormatError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
