package vti

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ValueRange returns the minimum and maximum scalar in the grid. Downstream
// normalization wants these bounds per field rather than per file, so callers
// typically fold ranges across a whole sequence.
func (g *Grid) ValueRange() (min, max float64) {
	if len(g.Values) == 0 {
		return 0, 0
	}
	return floats.Min(g.Values), floats.Max(g.Values)
}

// TopSlice returns the highest-Z layer of a 3D grid as a dense 2D matrix.
// The simulator's microstructure is usually inspected from the top surface.
func (g *Grid) TopSlice() (*mat.Dense, error) {
	if len(g.Shape) != 3 {
		return nil, fmt.Errorf("vti: top slice needs a 3D grid, shape is %v", g.Shape)
	}
	nx, ny, nz := g.Shape[0], g.Shape[1], g.Shape[2]
	// Row-major (x, y, z): the top layer is every nz-th value at offset nz-1.
	m := mat.NewDense(nx, ny, nil)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			m.Set(i, j, g.Values[(i*ny+j)*nz+nz-1])
		}
	}
	return m, nil
}
