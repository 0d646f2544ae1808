// Package differentiation approximates first derivatives with fixed
// finite-difference stencils and Richardson extrapolation.
//
// Tabulated data is differentiated with Differentiate. Nodes near the ends
// of the table that lack the neighbors a stencil needs are reported as not
// computable; no one-sided fallback is substituted. When a function is
// available, AtPoints samples it around each requested point instead.
package differentiation

import (
	"encoding/json"
	"math"

	"github.com/YuminosukeSato/scinum/core/parallel"
	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

// parallelThreshold is the node count above which stencils are evaluated
// concurrently.
const parallelThreshold = 4096

// uniformTol is the relative spacing deviation accepted as a uniform grid.
const uniformTol = 1e-6

// Estimate is the derivative at one node. OK is false where the stencil's
// neighbors fall outside the table; Value is then meaningless.
type Estimate struct {
	X     float64
	Value float64
	OK    bool
}

// MarshalJSON encodes a non-computable estimate with a null value.
func (e Estimate) MarshalJSON() ([]byte, error) {
	var v *float64
	if e.OK {
		v = &e.Value
	}
	return json.Marshal(struct {
		X     float64  `json:"x"`
		Value *float64 `json:"value"`
	}{e.X, v})
}

// Result holds one estimate per input node.
type Result struct {
	Stencil   Stencil    `json:"-"`
	Name      string     `json:"method"`
	H         float64    `json:"h"`
	Estimates []Estimate `json:"estimates"`
}

// Values returns the estimates as a slice with NaN at non-computable
// indices, convenient for plotting.
func (r *Result) Values() []float64 {
	out := make([]float64, len(r.Estimates))
	for i, e := range r.Estimates {
		if e.OK {
			out[i] = e.Value
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// spacing validates x as strictly increasing and returns its mean step.
// When uniform is set, every step must match the mean within uniformTol.
func spacing(op string, x []float64, uniform bool) (float64, error) {
	n := len(x)
	for i := 1; i < n; i++ {
		if !(x[i] > x[i-1]) {
			return 0, errors.NewValidationError("x", "nodes must be strictly increasing", x[i])
		}
	}
	h := (x[n-1] - x[0]) / float64(n-1)
	if uniform {
		for i := 1; i < n; i++ {
			if math.Abs((x[i]-x[i-1])-h) > uniformTol*h {
				return 0, errors.NewPreconditionErrorf(op, errors.ErrNonUniformGrid,
					"step %d is %g, mean step is %g", i, x[i]-x[i-1], h)
			}
		}
	}
	return h, nil
}

// Differentiate applies stencil s to tabulated values y at nodes x. Nodes
// must be strictly increasing; stencils other than the 2-point ones also
// require uniform spacing.
func Differentiate(s Stencil, x, y []float64) (*Result, error) {
	const op = "differentiation.Differentiate"
	f, ok := s.formula()
	if !ok {
		return nil, errors.NewValidationError("stencil", "unknown finite-difference stencil", int(s))
	}
	if len(x) != len(y) {
		return nil, errors.NewDimensionError(op, len(x), len(y), 0)
	}
	if len(x) < s.MinPoints() {
		return nil, errors.NewValidationError("x", "too few points for "+s.String(), len(x))
	}
	h, err := spacing(op, x, !f.nodeSpacing)
	if err != nil {
		return nil, err
	}

	n := len(x)
	lo, hi := s.ValidRange(n)
	est := make([]Estimate, n)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			est[i].X = x[i]
			if i < lo || i > hi {
				continue
			}
			est[i].Value = f.apply(x, y, i, 1, h)
			est[i].OK = true
		}
	})
	for _, e := range est {
		if e.OK {
			if err := errors.CheckScalar(op, e.Value, 0); err != nil {
				return nil, err
			}
		}
	}

	log.GetLoggerWithName("differentiation").Debug("stencil applied",
		log.MethodKey, s.String(),
		log.PointsKey, n,
		log.StepSizeKey, h,
	)
	return &Result{Stencil: s, Name: s.String(), H: h, Estimates: est}, nil
}

// AtPoints estimates f' at each point by sampling f on the stencil's
// offsets with step h. Every estimate is computable.
func AtPoints(f Func, points []float64, h float64, s Stencil) (*Result, error) {
	const op = "differentiation.AtPoints"
	form, ok := s.formula()
	if !ok {
		return nil, errors.NewValidationError("stencil", "unknown finite-difference stencil", int(s))
	}
	if len(points) == 0 {
		return nil, errors.NewValueError(op, "no evaluation points")
	}
	if !(h > 0) {
		return nil, errors.NewValidationError("h", "step size must be positive", h)
	}

	est := make([]Estimate, len(points))
	for i, p := range points {
		v, err := sampleAt(op, f, form, p, h)
		if err != nil {
			return nil, err
		}
		est[i] = Estimate{X: p, Value: v, OK: true}
	}

	log.GetLoggerWithName("differentiation").Debug("stencil applied to function",
		log.MethodKey, s.String(),
		log.PointsKey, len(points),
		log.StepSizeKey, h,
	)
	return &Result{Stencil: s, Name: s.String(), H: h, Estimates: est}, nil
}

// sampleAt builds a local table around p and applies the formula at its
// center.
func sampleAt(op string, f Func, form formula, p, h float64) (float64, error) {
	first, last := form.offsets[0], form.offsets[len(form.offsets)-1]
	size := last - first + 1
	xs := make([]float64, size)
	ys := make([]float64, size)
	for k := 0; k < size; k++ {
		xs[k] = p + float64(first+k)*h
		if k+first == 0 {
			xs[k] = p
		}
		needed := false
		for _, off := range form.offsets {
			if off == first+k {
				needed = true
				break
			}
		}
		if !needed {
			continue
		}
		ys[k] = f(xs[k])
		if err := errors.CheckScalar(op, ys[k], 0); err != nil {
			return 0, err
		}
	}
	v := form.apply(xs, ys, -first, 1, h)
	if err := errors.CheckScalar(op, v, 0); err != nil {
		return 0, err
	}
	return v, nil
}
