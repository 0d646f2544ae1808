package integration

import (
	"math"

	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Option configures AdaptiveSimpson.
type Option func(*adaptiveConfig)

type adaptiveConfig struct {
	tol      float64
	maxDepth int
}

// WithTolerance sets the absolute error target. Default 1e-6.
func WithTolerance(tol float64) Option {
	return func(c *adaptiveConfig) { c.tol = tol }
}

// WithMaxDepth bounds the recursion depth. Default 50.
func WithMaxDepth(depth int) Option {
	return func(c *adaptiveConfig) { c.maxDepth = depth }
}

type adaptive struct {
	f         Func
	evals     int
	exhausted bool
	err       error
}

func (s *adaptive) eval(x float64) float64 {
	s.evals++
	v := s.f(x)
	if s.err == nil {
		s.err = errors.CheckScalar("integration.AdaptiveSimpson", v, s.evals)
	}
	return v
}

// AdaptiveSimpson integrates f over [a, b] by recursively bisecting each
// panel until the two half-panel Simpson estimates agree with the whole to
// 15·tol, distributing tol evenly between halves. Panels that reach the
// depth limit are accepted as they are; the result then has
// Converged == false and a ConvergenceWarning is raised.
func AdaptiveSimpson(f Func, a, b float64, opts ...Option) (*Result, error) {
	cfg := adaptiveConfig{tol: 1e-6, maxDepth: 50}
	for _, o := range opts {
		o(&cfg)
	}
	if !(cfg.tol > 0) {
		return nil, errors.NewValidationError("tol", "tolerance must be positive", cfg.tol)
	}
	if cfg.maxDepth < 1 {
		return nil, errors.NewValidationError("max_depth", "must be at least 1", cfg.maxDepth)
	}
	if err := checkInterval(a, b); err != nil {
		return nil, err
	}

	s := &adaptive{f: f}
	fa, fb := s.eval(a), s.eval(b)
	m := (a + b) / 2
	fm := s.eval(m)
	whole := (b - a) / 6 * (fa + 4*fm + fb)
	value := s.recurse(a, b, fa, fm, fb, whole, cfg.tol, cfg.maxDepth)
	if s.err != nil {
		return nil, s.err
	}

	if s.exhausted {
		errors.Warn(errors.NewConvergenceWarning("adaptive_simpson", cfg.maxDepth,
			"maximum recursion depth reached before tolerance"))
	}
	log.GetLoggerWithName("integration").Debug("adaptive quadrature computed",
		log.MethodKey, Adaptive.String(),
		log.ToleranceKey, cfg.tol,
		log.EvaluationsKey, s.evals,
		log.ConvergedKey, !s.exhausted,
	)
	return &Result{
		Method:      Adaptive,
		Name:        Adaptive.String(),
		Value:       value,
		A:           a,
		B:           b,
		Evaluations: s.evals,
		Converged:   !s.exhausted,
	}, nil
}

func (s *adaptive) recurse(a, b, fa, fm, fb, whole, tol float64, depth int) float64 {
	m := (a + b) / 2
	lm, rm := (a+m)/2, (m+b)/2
	flm, frm := s.eval(lm), s.eval(rm)
	left := (m - a) / 6 * (fa + 4*flm + fm)
	right := (b - m) / 6 * (fm + 4*frm + fb)
	delta := left + right - whole
	if s.err != nil {
		return 0
	}
	if math.Abs(delta) <= 15*tol {
		return left + right + delta/15
	}
	if depth <= 0 {
		s.exhausted = true
		return left + right + delta/15
	}
	return s.recurse(a, m, fa, flm, fm, left, tol/2, depth-1) +
		s.recurse(m, b, fm, frm, fb, right, tol/2, depth-1)
}
