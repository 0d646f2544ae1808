// Package integration approximates definite integrals.
//
// The composite rules take function values the caller has already sampled
// on a uniform grid (see Sample), and the Gauss-Legendre rule takes values
// at the abscissas returned by GaussNodes. Only AdaptiveSimpson evaluates a
// function itself. Integrate combines sampling and rule selection.
package integration

import (
	"math"

	"github.com/YuminosukeSato/scinum/core/parallel"
	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Func is the integrand.
type Func func(x float64) float64

// Result is the outcome of one quadrature.
type Result struct {
	Method Method  `json:"-"`
	Name   string  `json:"method"`
	Value  float64 `json:"value"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	// N is the number of subintervals, or of points for Gauss-Legendre.
	N int     `json:"n"`
	H float64 `json:"h,omitempty"`

	// Levels holds the two trapezoid estimates combined by Richardson.
	Levels []float64 `json:"levels,omitempty"`

	// Evaluations and Converged are set by AdaptiveSimpson.
	Evaluations int  `json:"evaluations,omitempty"`
	Converged   bool `json:"converged"`
}

func newResult(m Method, value, a, b float64, n int, h float64) *Result {
	log.GetLoggerWithName("integration").Debug("quadrature computed",
		log.MethodKey, m.String(),
		log.IntervalsKey, n,
		log.ResultKey, value,
	)
	return &Result{Method: m, Name: m.String(), Value: value, A: a, B: b, N: n, H: h, Converged: true}
}

// Sample evaluates f on n+1 equally spaced points of [a, b]. The last point
// is exactly b. Above parallel.DefaultThreshold points f is called from
// several goroutines and must be safe for concurrent use.
func Sample(f Func, a, b float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "at least one subinterval is required", n)
	}
	h := (b - a) / float64(n)
	fx := parallel.Map(n+1, parallel.DefaultThreshold, func(i int) float64 {
		if i == n {
			return f(b)
		}
		return f(a + float64(i)*h)
	})
	if err := errors.CheckNumericalStability("integration.Sample", fx, 0); err != nil {
		return nil, err
	}
	return fx, nil
}

// checkSamples validates fx as n+1 samples and returns n.
func checkSamples(op string, fx []float64) (int, error) {
	if len(fx) < 2 {
		return 0, errors.NewValidationError("fx", "at least two samples are required", len(fx))
	}
	if err := errors.CheckNumericalStability(op, fx, 0); err != nil {
		return 0, err
	}
	return len(fx) - 1, nil
}

// TrapezoidRule applies the composite trapezoid rule
// h/2 · (f0 + 2·Σ f_i + f_n) to n+1 samples.
func TrapezoidRule(fx []float64, a, b float64) (*Result, error) {
	n, err := checkSamples("integration.Trapezoid", fx)
	if err != nil {
		return nil, err
	}
	h := (b - a) / float64(n)
	return newResult(Trapezoid, trapezoid(fx, h), a, b, n, h), nil
}

func trapezoid(fx []float64, h float64) float64 {
	n := len(fx) - 1
	sum := fx[0] + fx[n]
	for i := 1; i < n; i++ {
		sum += 2 * fx[i]
	}
	return h / 2 * sum
}

// Simpson13Rule applies composite Simpson 1/3. The number of subintervals
// must be even.
func Simpson13Rule(fx []float64, a, b float64) (*Result, error) {
	const op = "integration.Simpson13"
	n, err := checkSamples(op, fx)
	if err != nil {
		return nil, err
	}
	if n%2 != 0 {
		return nil, errors.NewPreconditionErrorf(op, errors.ErrOddIntervals, "n = %d", n)
	}
	h := (b - a) / float64(n)
	sum := fx[0] + fx[n]
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			sum += 4 * fx[i]
		} else {
			sum += 2 * fx[i]
		}
	}
	return newResult(Simpson13, h/3*sum, a, b, n, h), nil
}

// Simpson38Rule applies composite Simpson 3/8 with weights
// 1,3,3,2,3,3,2,…,3,3,1. The number of subintervals must be a multiple of 3.
func Simpson38Rule(fx []float64, a, b float64) (*Result, error) {
	const op = "integration.Simpson38"
	n, err := checkSamples(op, fx)
	if err != nil {
		return nil, err
	}
	if n%3 != 0 {
		return nil, errors.NewPreconditionErrorf(op, errors.ErrIntervalsNotMultipleOf3, "n = %d", n)
	}
	h := (b - a) / float64(n)
	sum := fx[0] + fx[n]
	for i := 1; i < n; i++ {
		if i%3 == 0 {
			sum += 2 * fx[i]
		} else {
			sum += 3 * fx[i]
		}
	}
	return newResult(Simpson38, 3*h/8*sum, a, b, n, h), nil
}

// RichardsonRule combines trapezoid estimates on a coarse and a fine grid as
// (4·I_fine − I_coarse)/3. The combination assumes the fine grid halves
// the coarse step; any other ratio raises an ExtrapolationWarning.
func RichardsonRule(coarse, fine []float64, a, b float64) (*Result, error) {
	const op = "integration.Richardson"
	n1, err := checkSamples(op, coarse)
	if err != nil {
		return nil, err
	}
	n2, err := checkSamples(op, fine)
	if err != nil {
		return nil, err
	}
	h1, h2 := (b-a)/float64(n1), (b-a)/float64(n2)
	if n2 != 2*n1 {
		errors.Warn(errors.NewExtrapolationWarning(op, h1, h2))
	}
	i1, i2 := trapezoid(coarse, h1), trapezoid(fine, h2)
	res := newResult(Richardson, (4*i2-i1)/3, a, b, n2, h2)
	res.Levels = []float64{i1, i2}
	return res, nil
}

// checkInterval rejects non-finite limits.
func checkInterval(a, b float64) error {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return errors.NewValidationError("interval", "limits must be finite", [2]float64{a, b})
	}
	return nil
}
