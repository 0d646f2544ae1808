// Package interpolation evaluates the polynomial through a set of nodes.
//
// Three algorithms are provided: Newton's divided differences in forward
// and backward orientation, and Neville's tableau. Each returns the value
// at the evaluation point together with the intermediate table so callers
// can display how it was obtained.
//
// All functions fail on mismatched lengths, fewer than two nodes, or
// duplicate abscissas. A duplicate node is reported as
// errors.ErrDuplicateNode; it is never turned into Inf or NaN.
package interpolation

import (
	"encoding/json"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scinum/internal/matutil"
	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Result is the outcome of one interpolation call.
type Result struct {
	Method Method
	Value  float64
	XEval  float64

	// X and Y are the nodes in the order the table was built from. For
	// NewtonBackward they are the reversed input.
	X, Y []float64

	// Table holds divided differences (Newton) or partial interpolants
	// (Neville). Column j has n-j meaningful rows; the rest are zero.
	Table *mat.Dense

	// Coefficients are the Newton polynomial coefficients, the first row of
	// Table. Nil for Neville.
	Coefficients []float64
}

// MarshalJSON renders the result with the table as nested arrays.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Method       string      `json:"method"`
		Value        float64     `json:"value"`
		XEval        float64     `json:"x_eval"`
		X            []float64   `json:"x"`
		Y            []float64   `json:"y"`
		Table        [][]float64 `json:"table"`
		Coefficients []float64   `json:"coefficients,omitempty"`
	}{r.Method.String(), r.Value, r.XEval, r.X, r.Y, matutil.Rows(r.Table), r.Coefficients})
}

func validate(op string, x, y []float64) error {
	if len(x) != len(y) {
		return errors.NewDimensionError(op, len(x), len(y), 0)
	}
	if len(x) < 2 {
		return errors.NewValidationError("x", "at least 2 nodes are required", len(x))
	}
	for i := range x {
		for j := i + 1; j < len(x); j++ {
			if x[i] == x[j] {
				return errors.NewPreconditionErrorf(op, errors.ErrDuplicateNode, "x[%d] == x[%d] == %g", i, j, x[i])
			}
		}
	}
	return nil
}

// Forward interpolates with Newton's forward divided differences:
//
//	T[i][0] = y[i]
//	T[i][j] = (T[i+1][j-1] - T[i][j-1]) / (x[i+j] - x[i])
//	p(t)    = T[0][0] + Σ_j T[0][j] Π_{k<j} (t - x[k])
//
// Nodes need not be sorted.
func Forward(x, y []float64, xEval float64) (*Result, error) {
	if err := validate("interpolation.Forward", x, y); err != nil {
		return nil, err
	}
	return newton(NewtonForward, append([]float64(nil), x...), append([]float64(nil), y...), xEval), nil
}

// Backward interpolates with Newton's divided differences on the reversed
// node sequence, so the polynomial is anchored at the last node.
func Backward(x, y []float64, xEval float64) (*Result, error) {
	if err := validate("interpolation.Backward", x, y); err != nil {
		return nil, err
	}
	n := len(x)
	xr, yr := make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		xr[i], yr[i] = x[n-1-i], y[n-1-i]
	}
	return newton(NewtonBackward, xr, yr, xEval), nil
}

// newton assumes validated, distinct nodes.
func newton(m Method, x, y []float64, xEval float64) *Result {
	n := len(x)
	table := mat.NewDense(n, n, nil)
	table.SetCol(0, y)
	for j := 1; j < n; j++ {
		for i := 0; i < n-j; i++ {
			table.Set(i, j, (table.At(i+1, j-1)-table.At(i, j-1))/(x[i+j]-x[i]))
		}
	}

	coef := mat.Row(nil, 0, table)
	value := coef[0]
	term := 1.0
	for j := 1; j < n; j++ {
		term *= xEval - x[j-1]
		value += coef[j] * term
	}

	log.GetLoggerWithName("interpolation").Debug("newton polynomial evaluated",
		log.MethodKey, m.String(),
		log.PointsKey, n,
		log.ResultKey, value,
	)

	return &Result{
		Method:       m,
		Value:        value,
		XEval:        xEval,
		X:            x,
		Y:            y,
		Table:        table,
		Coefficients: coef,
	}
}

// NevilleEval interpolates with Neville's algorithm:
//
//	T[i][j] = ((t - x[i+j]) T[i][j-1] - (t - x[i]) T[i+1][j-1]) / (x[i] - x[i+j])
//
// The value is T[0][n-1].
func NevilleEval(x, y []float64, xEval float64) (*Result, error) {
	if err := validate("interpolation.Neville", x, y); err != nil {
		return nil, err
	}
	n := len(x)
	table := mat.NewDense(n, n, nil)
	table.SetCol(0, y)
	for j := 1; j < n; j++ {
		for i := 0; i < n-j; i++ {
			v := ((xEval-x[i+j])*table.At(i, j-1) - (xEval-x[i])*table.At(i+1, j-1)) / (x[i] - x[i+j])
			table.Set(i, j, v)
		}
	}
	value := table.At(0, n-1)

	log.GetLoggerWithName("interpolation").Debug("neville tableau evaluated",
		log.MethodKey, Neville.String(),
		log.PointsKey, n,
		log.ResultKey, value,
	)

	return &Result{
		Method: Neville,
		Value:  value,
		XEval:  xEval,
		X:      append([]float64(nil), x...),
		Y:      append([]float64(nil), y...),
		Table:  table,
	}, nil
}

// Polynomial returns a function evaluating the Newton polynomial of r at
// any point. It is nil for Neville results, whose table depends on XEval.
func (r *Result) Polynomial() func(float64) float64 {
	if r.Coefficients == nil {
		return nil
	}
	coef, x := r.Coefficients, r.X
	return func(t float64) float64 {
		v := coef[len(coef)-1]
		for j := len(coef) - 2; j >= 0; j-- {
			v = v*(t-x[j]) + coef[j]
		}
		return v
	}
}
