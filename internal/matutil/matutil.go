// Package matutil converts between gonum matrices and the row-slice form
// used in JSON and YAML traces.
package matutil

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Rows copies m into a slice of rows. A nil matrix yields nil, so optional
// factors such as an absent permutation matrix encode as JSON null.
func Rows(m *mat.Dense) [][]float64 {
	if m == nil || m.IsEmpty() {
		return nil
	}
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// FromRows builds a dense matrix from rows of equal length.
func FromRows(op string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	c := len(rows[0])
	m := mat.NewDense(len(rows), c, nil)
	for i, row := range rows {
		if len(row) != c {
			return nil, errors.NewDimensionError(op, c, len(row), 1)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

// Square reports an error unless a is n×n with n ≥ 1 and returns n.
func Square(op string, a mat.Matrix) (int, error) {
	r, c := a.Dims()
	if r == 0 {
		return 0, errors.NewValueError(op, "empty matrix")
	}
	if r != c {
		return 0, errors.NewDimensionError(op, r, c, 1)
	}
	return r, nil
}
