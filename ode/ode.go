// Package ode integrates initial value problems y' = f(x, y) with fixed
// steps.
//
// Every scheme is implemented once on a vector state. Scalar problems are
// solved as one-component systems. The step is h = (XF − X0)/N and the
// k-th abscissa is X0 + k·h, so trajectories always have N+1 points.
//
// A step that produces NaN or Inf stops the solve with an
// *errors.NumericalInstabilityError; partial trajectories are not
// returned.
package ode

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Func is the right-hand side of a scalar equation y' = f(x, y).
type Func func(x, y float64) float64

// SystemFunc is the right-hand side of a system y' = f(x, y). It must
// return a new slice of len(y) derivatives and must not retain y.
type SystemFunc func(x float64, y []float64) []float64

// Problem is a scalar initial value problem on [X0, XF] with N steps.
type Problem struct {
	X0, Y0, XF float64
	N          int
}

// SystemProblem is a vector initial value problem on [X0, XF] with N steps.
type SystemProblem struct {
	X0 float64
	Y0 []float64
	XF float64
	N  int
}

// Trajectory is the solution of a scalar problem.
type Trajectory struct {
	Method Method    `json:"-"`
	Name   string    `json:"method"`
	H      float64   `json:"h"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	// ErrorEstimates is |y5 − y4| per step for RKF45 and empty otherwise.
	ErrorEstimates []float64 `json:"error_estimates,omitempty"`
}

// SystemTrajectory is the solution of a system; Y[k] is the state at X[k].
type SystemTrajectory struct {
	Method         Method      `json:"-"`
	Name           string      `json:"method"`
	H              float64     `json:"h"`
	X              []float64   `json:"x"`
	Y              [][]float64 `json:"y"`
	ErrorEstimates []float64   `json:"error_estimates,omitempty"`
}

// Component returns the i-th state variable along the trajectory.
func (t *SystemTrajectory) Component(i int) []float64 {
	out := make([]float64, len(t.Y))
	for k, y := range t.Y {
		out[k] = y[i]
	}
	return out
}

// Final returns the last state.
func (t *SystemTrajectory) Final() []float64 {
	return t.Y[len(t.Y)-1]
}

func validateProblem(x0, xf float64, y0 []float64, n int, m Method) error {
	if n < 1 {
		return errors.NewValidationError("n", "at least one step is required", n)
	}
	if m.IsMultistep() && n < 4 {
		return errors.NewValidationError("n", m.String()+" requires at least 4 steps", n)
	}
	if len(y0) == 0 {
		return errors.NewValueError("ode.Solve", "empty initial state")
	}
	vals := append([]float64{x0, xf}, y0...)
	return errors.CheckNumericalStability("ode.Solve", vals, 0)
}

// rhs wraps f with dimension and finiteness checks.
type rhs struct {
	f     SystemFunc
	dim   int
	evals int
}

func (r *rhs) eval(x float64, y []float64, step int) ([]float64, error) {
	r.evals++
	d := r.f(x, y)
	if len(d) != r.dim {
		return nil, errors.NewDimensionError("ode.rhs", r.dim, len(d), 0)
	}
	if err := errors.CheckNumericalStability("ode.rhs", d, step); err != nil {
		return nil, err
	}
	return d, nil
}

// axpy returns y + Σ h·c_i·k_i without modifying its inputs.
func axpy(y []float64, h float64, coef []float64, ks ...[]float64) []float64 {
	out := append([]float64(nil), y...)
	for i, k := range ks {
		if coef[i] != 0 {
			floats.AddScaled(out, h*coef[i], k)
		}
	}
	return out
}

// SolveSystem integrates a system with method m. Taylor methods need
// symbolic derivatives and are only available through Taylor.
func SolveSystem(m Method, f SystemFunc, p SystemProblem, opts ...Option) (*SystemTrajectory, error) {
	if m.TaylorOrder() > 0 {
		return nil, errors.NewValidationError("method", "taylor methods need an expression; use ode.Taylor", m.String())
	}
	if m < 0 || int(m) >= len(methodNames) {
		return nil, errors.NewValidationError("method", "unknown ODE method", int(m))
	}
	if err := validateProblem(p.X0, p.XF, p.Y0, p.N, m); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	s := &solver{
		method: m,
		f:      &rhs{f: f, dim: len(p.Y0)},
		x0:     p.X0,
		h:      (p.XF - p.X0) / float64(p.N),
		n:      p.N,
		cfg:    cfg,
	}
	traj, err := s.run(p.Y0)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("ode").Debug("initial value problem solved",
		log.MethodKey, m.String(),
		log.IntervalsKey, p.N,
		log.DimensionKey, len(p.Y0),
		log.StepSizeKey, s.h,
		log.EvaluationsKey, s.f.evals,
	)
	return traj, nil
}

// Solve integrates a scalar equation with method m.
func Solve(m Method, f Func, p Problem, opts ...Option) (*Trajectory, error) {
	sys := func(x float64, y []float64) []float64 {
		return []float64{f(x, y[0])}
	}
	st, err := SolveSystem(m, sys, SystemProblem{X0: p.X0, Y0: []float64{p.Y0}, XF: p.XF, N: p.N}, opts...)
	if err != nil {
		return nil, err
	}
	return scalar(st), nil
}

func scalar(st *SystemTrajectory) *Trajectory {
	return &Trajectory{
		Method:         st.Method,
		Name:           st.Name,
		H:              st.H,
		X:              st.X,
		Y:              st.Component(0),
		ErrorEstimates: st.ErrorEstimates,
	}
}

type solver struct {
	method Method
	f      *rhs
	x0, h  float64
	n      int
	cfg    config
}

func (s *solver) xAt(k int) float64 {
	return s.x0 + float64(k)*s.h
}

func (s *solver) run(y0 []float64) (*SystemTrajectory, error) {
	t := &SystemTrajectory{
		Method: s.method,
		Name:   s.method.String(),
		H:      s.h,
		X:      make([]float64, s.n+1),
		Y:      make([][]float64, s.n+1),
	}
	for k := range t.X {
		t.X[k] = s.xAt(k)
	}
	t.Y[0] = append([]float64(nil), y0...)

	var err error
	switch s.method {
	case AdamsBashforth, AdamsMoulton:
		err = s.multistep(t)
	default:
		for k := 0; k < s.n; k++ {
			var est float64
			t.Y[k+1], est, err = s.step(k, t.Y[k])
			if err != nil {
				break
			}
			if s.method == RKF45 {
				t.ErrorEstimates = append(t.ErrorEstimates, est)
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// step advances one single-step scheme from index k.
func (s *solver) step(k int, y []float64) ([]float64, float64, error) {
	x, h := s.xAt(k), s.h
	var (
		next []float64
		est  float64
		err  error
	)
	switch s.method {
	case Euler:
		next, err = s.euler(k, x, h, y)
	case RK3:
		next, err = s.rk3(k, x, h, y)
	case RK4:
		next, err = s.rk4(k, x, h, y)
	case RKF45:
		next, est, err = s.rkf45(k, x, h, y)
	}
	if err != nil {
		return nil, 0, err
	}
	if err := errors.CheckNumericalStability("ode."+s.method.String(), next, k+1); err != nil {
		return nil, 0, err
	}
	return next, est, nil
}

func (s *solver) euler(k int, x, h float64, y []float64) ([]float64, error) {
	k1, err := s.f.eval(x, y, k)
	if err != nil {
		return nil, err
	}
	return axpy(y, h, []float64{1}, k1), nil
}

// rk3 is Kutta's third-order method.
func (s *solver) rk3(k int, x, h float64, y []float64) ([]float64, error) {
	k1, err := s.f.eval(x, y, k)
	if err != nil {
		return nil, err
	}
	k2, err := s.f.eval(x+h/2, axpy(y, h, []float64{0.5}, k1), k)
	if err != nil {
		return nil, err
	}
	k3, err := s.f.eval(x+h, axpy(y, h, []float64{-1, 2}, k1, k2), k)
	if err != nil {
		return nil, err
	}
	return axpy(y, h, []float64{1.0 / 6, 4.0 / 6, 1.0 / 6}, k1, k2, k3), nil
}

func (s *solver) rk4(k int, x, h float64, y []float64) ([]float64, error) {
	k1, err := s.f.eval(x, y, k)
	if err != nil {
		return nil, err
	}
	k2, err := s.f.eval(x+h/2, axpy(y, h, []float64{0.5}, k1), k)
	if err != nil {
		return nil, err
	}
	k3, err := s.f.eval(x+h/2, axpy(y, h, []float64{0.5}, k2), k)
	if err != nil {
		return nil, err
	}
	k4, err := s.f.eval(x+h, axpy(y, h, []float64{1}, k3), k)
	if err != nil {
		return nil, err
	}
	return axpy(y, h, []float64{1.0 / 6, 2.0 / 6, 2.0 / 6, 1.0 / 6}, k1, k2, k3, k4), nil
}

// Fehlberg 4(5) tableau.
var (
	rkfC = [6]float64{0, 1.0 / 4, 3.0 / 8, 12.0 / 13, 1, 1.0 / 2}
	rkfA = [6][]float64{
		{},
		{1.0 / 4},
		{3.0 / 32, 9.0 / 32},
		{1932.0 / 2197, -7200.0 / 2197, 7296.0 / 2197},
		{439.0 / 216, -8, 3680.0 / 513, -845.0 / 4104},
		{-8.0 / 27, 2, -3544.0 / 2565, 1859.0 / 4104, -11.0 / 40},
	}
	rkfB5 = []float64{16.0 / 135, 0, 6656.0 / 12825, 28561.0 / 56430, -9.0 / 50, 2.0 / 55}
	rkfB4 = []float64{25.0 / 216, 0, 1408.0 / 2565, 2197.0 / 4104, -1.0 / 5, 0}
)

// rkf45 advances with the fifth-order weights at fixed h and reports the
// embedded error estimate max|y5 − y4|.
func (s *solver) rkf45(k int, x, h float64, y []float64) ([]float64, float64, error) {
	ks := make([][]float64, 6)
	for i := range ks {
		var err error
		ks[i], err = s.f.eval(x+rkfC[i]*h, axpy(y, h, rkfA[i], ks[:i]...), k)
		if err != nil {
			return nil, 0, err
		}
	}
	y5 := axpy(y, h, rkfB5, ks...)
	y4 := axpy(y, h, rkfB4, ks...)
	return y5, floats.Distance(y5, y4, math.Inf(1)), nil
}

// multistep runs the 4-step Adams schemes. The first three steps are taken
// with RK4; afterwards hist holds f at the last four points, oldest first.
func (s *solver) multistep(t *SystemTrajectory) error {
	var hist [4][]float64
	rk := &solver{method: RK4, f: s.f, x0: s.x0, h: s.h, n: s.n, cfg: s.cfg}
	for k := 0; k < 3; k++ {
		d, err := s.f.eval(t.X[k], t.Y[k], k)
		if err != nil {
			return err
		}
		hist[k] = d
		t.Y[k+1], _, err = rk.step(k, t.Y[k])
		if err != nil {
			return err
		}
	}
	d, err := s.f.eval(t.X[3], t.Y[3], 3)
	if err != nil {
		return err
	}
	hist[3] = d

	h := s.h
	ab := []float64{-9.0 / 24, 37.0 / 24, -59.0 / 24, 55.0 / 24}
	for k := 3; k < s.n; k++ {
		y := t.Y[k]
		next := axpy(y, h, ab, hist[0], hist[1], hist[2], hist[3])

		if s.method == AdamsMoulton {
			for it := 0; it < s.cfg.correctorIters; it++ {
				fp, err := s.f.eval(t.X[k+1], next, k+1)
				if err != nil {
					return err
				}
				corrected := axpy(y, h, []float64{9.0 / 24, 19.0 / 24, -5.0 / 24, 1.0 / 24},
					fp, hist[3], hist[2], hist[1])
				change := floats.Distance(corrected, next, math.Inf(1))
				next = corrected
				if change <= s.cfg.correctorTol*(1+floats.Norm(next, math.Inf(1))) {
					break
				}
			}
		}
		if err := errors.CheckNumericalStability("ode."+s.method.String(), next, k+1); err != nil {
			return err
		}
		t.Y[k+1] = next

		if k+1 < s.n {
			d, err := s.f.eval(t.X[k+1], next, k+1)
			if err != nil {
				return err
			}
			hist = [4][]float64{hist[1], hist[2], hist[3], d}
		}
	}
	return nil
}
