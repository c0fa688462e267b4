package embedding

import (
	"fmt"
	"math"
)

// Matrix holds a dense cells-by-dimensions embedding, one row per cell.
// Rows are stored in a single flat arena so that Row returns a view
// without per-cell allocation. A Matrix is immutable after construction.
type Matrix struct {
	data []float32
	n    int
	dims int
}

// NewMatrix builds a Matrix from per-cell vectors. All rows must have the
// same length and every value must be finite.
func NewMatrix(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyMatrix
	}

	dims := len(rows[0])
	if dims == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional rows", ErrInvalidDimensions)
	}

	data := make([]float32, 0, len(rows)*dims)
	for i, row := range rows {
		if len(row) != dims {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(row), dims)
		}
		for j, v := range row {
			if !isFinite(v) {
				return nil, fmt.Errorf("%w: cell %d dimension %d", ErrNonFiniteValue, i, j)
			}
		}
		data = append(data, row...)
	}

	return &Matrix{data: data, n: len(rows), dims: dims}, nil
}

// FromFlat builds a Matrix from a row-major flat slice. The slice is copied.
func FromFlat(data []float32, dims int) (*Matrix, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: dims must be > 0, got %d", ErrInvalidDimensions, dims)
	}
	if len(data) == 0 {
		return nil, ErrEmptyMatrix
	}
	if len(data)%dims != 0 {
		return nil, fmt.Errorf("%w: %d values not divisible by %d dims", ErrInvalidDimensions, len(data), dims)
	}

	for i, v := range data {
		if !isFinite(v) {
			return nil, fmt.Errorf("%w: cell %d dimension %d", ErrNonFiniteValue, i/dims, i%dims)
		}
	}

	cp := make([]float32, len(data))
	copy(cp, data)
	return &Matrix{data: cp, n: len(data) / dims, dims: dims}, nil
}

// Len returns the number of cells.
func (m *Matrix) Len() int {
	return m.n
}

// Dims returns the number of dimensions per cell.
func (m *Matrix) Dims() int {
	return m.dims
}

// Row returns the vector for cell i as a view into the arena.
// Callers must not modify the returned slice.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.dims : (i+1)*m.dims]
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
