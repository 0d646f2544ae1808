// Package roots finds zeros of scalar functions.
//
// Every method stops as soon as the tolerance test passes. When the
// iteration budget runs out first the last iterate is returned with
// Converged == false and a nil error; an errors.ConvergenceWarning is
// raised through errors.Warn. Precondition failures such as a missing sign
// change or a vanishing derivative are returned as errors.
package roots

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

const (
	flatSecant    = 1e-15
	zeroSlope     = 1e-15
	linearMuller  = 1e-14
	mullerDivisor = 1e-15
)

// Iteration is one row of the iteration history.
type Iteration struct {
	N     int     `json:"n"`
	X     float64 `json:"x"`
	FX    float64 `json:"fx"`
	Error float64 `json:"error"`
}

// Result is the outcome of a root search. For FixedPoint, FX holds the
// residual g(x) − x of the last step.
type Result struct {
	Method     Method      `json:"-"`
	Name       string      `json:"method"`
	Root       float64     `json:"root"`
	FX         float64     `json:"fx"`
	Error      float64     `json:"error"`
	Iterations int         `json:"iterations"`
	Converged  bool        `json:"converged"`
	History    []Iteration `json:"history"`
}

// search holds the state shared by every method: budget, evaluation
// checks and the history being built.
type search struct {
	method Method
	cfg    config
	res    *Result
	logger log.Logger
}

func newSearch(m Method, opts []Option) (*search, error) {
	cfg := newConfig(opts)
	if !(cfg.tol > 0) {
		return nil, errors.NewValidationError("tol", "tolerance must be positive", cfg.tol)
	}
	if cfg.maxIter < 1 {
		return nil, errors.NewValidationError("max_iterations", "must be at least 1", cfg.maxIter)
	}
	return &search{
		method: m,
		cfg:    cfg,
		res:    &Result{Method: m, Name: m.String()},
		logger: log.GetLoggerWithName("roots").With(log.MethodKey, m.String()),
	}, nil
}

func (s *search) op() string {
	return "roots." + s.method.String()
}

// eval calls f and rejects NaN or Inf.
func (s *search) eval(f Func, x float64, iter int) (float64, error) {
	if err := errors.CheckScalar(s.op(), x, iter); err != nil {
		return 0, err
	}
	v := f(x)
	if err := errors.CheckScalar(s.op(), v, iter); err != nil {
		return 0, err
	}
	return v, nil
}

// record appends an iterate and reports whether it meets the tolerance.
func (s *search) record(x, fx, e float64, residual bool) bool {
	n := len(s.res.History) + 1
	s.res.History = append(s.res.History, Iteration{N: n, X: x, FX: fx, Error: e})
	s.res.Root, s.res.FX, s.res.Error, s.res.Iterations = x, fx, e, n
	s.logger.Debug("iteration",
		log.IterationKey, n,
		"x", x,
		"fx", fx,
		log.ErrorEstimateKey, e,
	)
	if e < s.cfg.tol {
		return true
	}
	return residual && math.Abs(fx) < s.cfg.tol
}

func (s *search) converged() *Result {
	s.res.Converged = true
	s.logger.Debug("root found",
		log.ResultKey, s.res.Root,
		log.IterationKey, s.res.Iterations,
		log.ConvergedKey, true,
	)
	return s.res
}

// exhausted returns the last iterate as a best-effort result.
func (s *search) exhausted() *Result {
	s.res.Converged = false
	msg := fmt.Sprintf("tolerance %g not reached; last error %g", s.cfg.tol, s.res.Error)
	errors.Warn(errors.NewConvergenceWarning(s.method.String(), s.cfg.maxIter, msg))
	s.logger.Warn("iteration budget exhausted",
		log.MaxIterationsKey, s.cfg.maxIter,
		log.ToleranceKey, s.cfg.tol,
		log.ErrorEstimateKey, s.res.Error,
		log.ResultKey, s.res.Root,
	)
	return s.res
}

func (s *search) fail(kind error, format string, args ...interface{}) error {
	s.logger.Debug("root search failed", log.IterationKey, len(s.res.History), "reason", kind.Error())
	return errors.NewPreconditionErrorf(s.op(), kind, format, args...)
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func bracket(s *search, f Func, a, b float64) (fa, fb float64, err error) {
	if fa, err = s.eval(f, a, 0); err != nil {
		return 0, 0, err
	}
	if fb, err = s.eval(f, b, 0); err != nil {
		return 0, 0, err
	}
	if fa == 0 || fb == 0 || sameSign(fa, fb) {
		return 0, 0, s.fail(errors.ErrNoSignChange, "f(%g) = %g and f(%g) = %g", a, fa, b, fb)
	}
	return fa, fb, nil
}

// Bisect halves [a, b] keeping the half with the sign change. It stops
// when |f(c)| < tol or the interval is narrower than tol.
func Bisect(f Func, a, b float64, opts ...Option) (*Result, error) {
	s, err := newSearch(Bisection, opts)
	if err != nil {
		return nil, err
	}
	fa, _, err := bracket(s, f, a, b)
	if err != nil {
		return nil, err
	}
	for it := 1; it <= s.cfg.maxIter; it++ {
		c := (a + b) / 2
		fc, err := s.eval(f, c, it)
		if err != nil {
			return nil, err
		}
		if sameSign(fa, fc) {
			a, fa = c, fc
		} else {
			b = c
		}
		if s.record(c, fc, math.Abs(b-a), true) {
			return s.converged(), nil
		}
	}
	return s.exhausted(), nil
}

// RegulaFalsi is the false position method: the bracket is cut where the
// chord through (a, f(a)) and (b, f(b)) crosses zero. It stops when
// |f(c)| < tol or successive c differ by less than tol.
func RegulaFalsi(f Func, a, b float64, opts ...Option) (*Result, error) {
	s, err := newSearch(FalsePosition, opts)
	if err != nil {
		return nil, err
	}
	fa, fb, err := bracket(s, f, a, b)
	if err != nil {
		return nil, err
	}
	prev := math.NaN()
	for it := 1; it <= s.cfg.maxIter; it++ {
		c := (a*fb - b*fa) / (fb - fa)
		fc, err := s.eval(f, c, it)
		if err != nil {
			return nil, err
		}
		e := math.Abs(b - a)
		if !math.IsNaN(prev) {
			e = math.Abs(c - prev)
		}
		prev = c
		if fc != 0 {
			if sameSign(fa, fc) {
				a, fa = c, fc
			} else {
				b, fb = c, fc
			}
		}
		if s.record(c, fc, e, true) {
			return s.converged(), nil
		}
	}
	return s.exhausted(), nil
}

// SecantMethod iterates x2 = x1 − f(x1)·(x1 − x0)/(f(x1) − f(x0)) from two
// seeds. No sign change is needed.
func SecantMethod(f Func, x0, x1 float64, opts ...Option) (*Result, error) {
	s, err := newSearch(Secant, opts)
	if err != nil {
		return nil, err
	}
	f0, err := s.eval(f, x0, 0)
	if err != nil {
		return nil, err
	}
	f1, err := s.eval(f, x1, 0)
	if err != nil {
		return nil, err
	}
	for it := 1; it <= s.cfg.maxIter; it++ {
		if math.Abs(f1-f0) < flatSecant {
			return nil, s.fail(errors.ErrFlatSecant, "f(%g) - f(%g) = %g", x1, x0, f1-f0)
		}
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		f2, err := s.eval(f, x2, it)
		if err != nil {
			return nil, err
		}
		if s.record(x2, f2, math.Abs(x2-x1), true) {
			return s.converged(), nil
		}
		x0, f0, x1, f1 = x1, f1, x2, f2
	}
	return s.exhausted(), nil
}

// Newton iterates x ← x − f(x)/f'(x).
func Newton(f, df Func, x0 float64, opts ...Option) (*Result, error) {
	s, err := newSearch(NewtonRaphson, opts)
	if err != nil {
		return nil, err
	}
	x := x0
	fx, err := s.eval(f, x, 0)
	if err != nil {
		return nil, err
	}
	for it := 1; it <= s.cfg.maxIter; it++ {
		d, err := s.eval(df, x, it)
		if err != nil {
			return nil, err
		}
		if math.Abs(d) < zeroSlope {
			return nil, s.fail(errors.ErrZeroDerivative, "f'(%g) = %g", x, d)
		}
		next := x - fx/d
		fn, err := s.eval(f, next, it)
		if err != nil {
			return nil, err
		}
		if s.record(next, fn, math.Abs(next-x), true) {
			return s.converged(), nil
		}
		x, fx = next, fn
	}
	return s.exhausted(), nil
}

// FixedPointIteration iterates x ← g(x) and stops only when successive
// iterates differ by less than tol. Divergence is not detected beyond the
// iteration budget.
func FixedPointIteration(g Func, x0 float64, opts ...Option) (*Result, error) {
	s, err := newSearch(FixedPoint, opts)
	if err != nil {
		return nil, err
	}
	x := x0
	for it := 1; it <= s.cfg.maxIter; it++ {
		next, err := s.eval(g, x, it)
		if err != nil {
			return nil, err
		}
		if s.record(next, next-x, math.Abs(next-x), false) {
			return s.converged(), nil
		}
		x = next
	}
	return s.exhausted(), nil
}

// MullerMethod fits a parabola through the last three points using divided
// differences and moves to its root nearest x2. The sign in the
// denominator is chosen to maximise its magnitude. A negligible quadratic
// coefficient falls back to a secant step. Complex steps are rejected.
func MullerMethod(f Func, x0, x1, x2 float64, opts ...Option) (*Result, error) {
	s, err := newSearch(Muller, opts)
	if err != nil {
		return nil, err
	}
	if x0 == x1 || x1 == x2 || x0 == x2 {
		return nil, s.fail(errors.ErrCoincidentSeeds, "seeds %g, %g, %g", x0, x1, x2)
	}
	f0, err := s.eval(f, x0, 0)
	if err != nil {
		return nil, err
	}
	f1, err := s.eval(f, x1, 0)
	if err != nil {
		return nil, err
	}
	f2, err := s.eval(f, x2, 0)
	if err != nil {
		return nil, err
	}

	for it := 1; it <= s.cfg.maxIter; it++ {
		h1, h2 := x1-x0, x2-x1
		if h1 == 0 || h2 == 0 || h1+h2 == 0 {
			return nil, s.fail(errors.ErrCoincidentSeeds, "points %g, %g, %g at iteration %d", x0, x1, x2, it)
		}
		d1, d2 := (f1-f0)/h1, (f2-f1)/h2
		a := (d2 - d1) / (h2 + h1)
		b := a*h2 + d2
		c := f2

		var dx float64
		if math.Abs(a) < linearMuller {
			if math.Abs(b) < mullerDivisor {
				return nil, s.fail(errors.ErrSmallDenominator, "linear step slope %g at iteration %d", b, it)
			}
			dx = -c / b
		} else {
			disc := b*b - 4*a*c
			if disc < 0 {
				return nil, s.fail(errors.ErrComplexRoot, "discriminant %g at iteration %d", disc, it)
			}
			rad := math.Sqrt(disc)
			den := b + rad
			if math.Abs(b-rad) > math.Abs(den) {
				den = b - rad
			}
			if math.Abs(den) < mullerDivisor {
				return nil, s.fail(errors.ErrSmallDenominator, "denominator %g at iteration %d", den, it)
			}
			dx = -2 * c / den
		}

		x3 := x2 + dx
		f3, err := s.eval(f, x3, it)
		if err != nil {
			return nil, err
		}
		if s.record(x3, f3, math.Abs(dx), true) {
			return s.converged(), nil
		}
		x0, f0, x1, f1, x2, f2 = x1, f1, x2, f2, x3, f3
	}
	return s.exhausted(), nil
}
