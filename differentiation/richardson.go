package differentiation

import (
	"math"

	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// RichardsonResult holds both base estimates and their combination
// (4·D2 − D1)/3 at every point.
type RichardsonResult struct {
	Base  Stencil    `json:"-"`
	Name  string     `json:"base"`
	H1    float64    `json:"h1"`
	H2    float64    `json:"h2"`
	D1    []Estimate `json:"d1"`
	D2    []Estimate `json:"d2"`
	Value []Estimate `json:"estimates"`
}

// richardsonBase reports whether s is second-order, the only case in which
// (4·D2 − D1)/3 cancels the leading error term.
func richardsonBase(s Stencil) error {
	if s != ThreeCentered && s != ThreeBackward {
		return errors.NewPreconditionErrorf("differentiation.Richardson", errors.ErrUnsupportedBase,
			"%s is not a second-order base; use 3_centrada or 3_atras", s)
	}
	return nil
}

// Richardson extrapolates f' at each point from base estimates with step
// sizes h1 and h2. The combination assumes the base is second-order and
// h1 = 2·h2; other ratios are computed but raise an ExtrapolationWarning
// through errors.Warn. Only ThreeCentered and ThreeBackward are accepted.
func Richardson(f Func, points []float64, h1, h2 float64, base Stencil) (*RichardsonResult, error) {
	if err := richardsonBase(base); err != nil {
		return nil, err
	}
	if !(h1 > 0) || !(h2 > 0) {
		return nil, errors.NewValidationError("h", "step sizes must be positive", [2]float64{h1, h2})
	}
	if math.Abs(h1/h2-2) > 1e-9 {
		errors.Warn(errors.NewExtrapolationWarning("differentiation.Richardson", h1, h2))
	}

	r1, err := AtPoints(f, points, h1, base)
	if err != nil {
		return nil, err
	}
	r2, err := AtPoints(f, points, h2, base)
	if err != nil {
		return nil, err
	}

	combined := combine(r1.Estimates, r2.Estimates)
	log.GetLoggerWithName("differentiation").Debug("richardson extrapolation",
		log.MethodKey, "richardson",
		log.PointsKey, len(points),
		"h1", h1, "h2", h2,
	)
	return &RichardsonResult{
		Base: base, Name: base.String(),
		H1: h1, H2: h2,
		D1: r1.Estimates, D2: r2.Estimates, Value: combined,
	}, nil
}

// RichardsonTable extrapolates on a uniform table: D2 uses neighbors one
// node apart (step h), D1 uses neighbors two nodes apart (step 2h). An index
// is computable only when both are, so the valid range is twice as narrow
// as the base stencil's.
func RichardsonTable(x, y []float64, base Stencil) (*RichardsonResult, error) {
	const op = "differentiation.RichardsonTable"
	if err := richardsonBase(base); err != nil {
		return nil, err
	}
	if len(x) != len(y) {
		return nil, errors.NewDimensionError(op, len(x), len(y), 0)
	}
	form := formulas[base]
	span := form.offsets[len(form.offsets)-1] - form.offsets[0]
	if len(x) < 2*span+1 {
		return nil, errors.NewValidationError("x", "too few points for richardson on "+base.String(), len(x))
	}
	h, err := spacing(op, x, true)
	if err != nil {
		return nil, err
	}

	n := len(x)
	lo, hi := -2*form.offsets[0], n-1-2*form.offsets[len(form.offsets)-1]
	d1 := make([]Estimate, n)
	d2 := make([]Estimate, n)
	for i := 0; i < n; i++ {
		d1[i].X, d2[i].X = x[i], x[i]
		if i < lo || i > hi {
			continue
		}
		d1[i] = Estimate{X: x[i], Value: form.apply(x, y, i, 2, h), OK: true}
		d2[i] = Estimate{X: x[i], Value: form.apply(x, y, i, 1, h), OK: true}
		if err := errors.CheckScalar(op, d2[i].Value, 0); err != nil {
			return nil, err
		}
	}

	return &RichardsonResult{
		Base: base, Name: base.String(),
		H1: 2 * h, H2: h,
		D1: d1, D2: d2, Value: combine(d1, d2),
	}, nil
}

func combine(d1, d2 []Estimate) []Estimate {
	out := make([]Estimate, len(d1))
	for i := range d1 {
		out[i].X = d1[i].X
		if d1[i].OK && d2[i].OK {
			out[i].Value = (4*d2[i].Value - d1[i].Value) / 3
			out[i].OK = true
		}
	}
	return out
}
