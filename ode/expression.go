package ode

import (
	"fmt"

	"github.com/YuminosukeSato/scinum/expr"
	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Taylor integrates y' = f(x, y) with the Taylor method of the given order
// (2 to 4):
//
//	y_{k+1} = y_k + h·f + h²/2·f' + h³/6·f'' + h⁴/24·f'''
//
// truncated to order. The total derivatives f', f'', f''' are derived once
// per solve by the configured Differentiator and compiled before stepping.
func Taylor(f *expr.Expr, order int, p Problem, opts ...Option) (*Trajectory, error) {
	if order < 2 || order > 4 {
		return nil, errors.NewValidationError("order", "taylor order must be 2, 3 or 4", order)
	}
	m := Method(int(Taylor2) + order - 2)
	if err := validateProblem(p.X0, p.XF, []float64{p.Y0}, p.N, m); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	d := cfg.diff
	if s, ok := d.(expr.Symbolic); ok && s.X == "" && s.Y == "" {
		d = expr.Symbolic{X: cfg.xName, Y: cfg.yName}
	}
	ders, err := d.TotalDerivatives(f, order-1)
	if err != nil {
		return nil, err
	}
	if len(ders) != order {
		return nil, errors.NewDimensionError("ode.Taylor", order, len(ders), 0)
	}

	h := (p.XF - p.X0) / float64(p.N)
	// h^j / (j+1)! for j = 0..order-1
	coef := make([]float64, order)
	c := h
	for j := range coef {
		coef[j] = c
		c *= h / float64(j+2)
	}

	t := &Trajectory{
		Method: m,
		Name:   m.String(),
		H:      h,
		X:      make([]float64, p.N+1),
		Y:      make([]float64, p.N+1),
	}
	t.Y[0] = p.Y0
	for k := 0; k <= p.N; k++ {
		t.X[k] = p.X0 + float64(k)*h
	}
	for k := 0; k < p.N; k++ {
		x, y := t.X[k], t.Y[k]
		next := y
		for j, prog := range ders {
			v, err := prog.Call(x, y)
			if err != nil {
				return nil, errors.Wrapf(err, "taylor derivative %d at step %d", j, k)
			}
			next += coef[j] * v
		}
		if err := errors.CheckScalar("ode."+m.String(), next, k+1); err != nil {
			return nil, err
		}
		t.Y[k+1] = next
	}

	log.GetLoggerWithName("ode").Debug("taylor method solved",
		log.MethodKey, m.String(),
		log.IntervalsKey, p.N,
		log.StepSizeKey, h,
	)
	return t, nil
}

// SolveExpr parses src as f(x, y) and integrates it with method m. Taylor
// methods use symbolic derivatives of src.
func SolveExpr(m Method, src string, p Problem, opts ...Option) (*Trajectory, error) {
	e, err := expr.Parse(src)
	if err != nil {
		return nil, err
	}
	if order := m.TaylorOrder(); order > 0 {
		return Taylor(e, order, p, opts...)
	}
	cfg := newConfig(opts)
	prog, err := e.Compile(cfg.xName, cfg.yName)
	if err != nil {
		return nil, err
	}
	return Solve(m, func(x, y float64) float64 { return prog.Raw(x, y) }, p, opts...)
}

// SystemVariables returns the state names bound by SolveSystemExpr for a
// system of size m: y1, …, ym.
func SystemVariables(m int) []string {
	names := make([]string, m)
	for i := range names {
		names[i] = fmt.Sprintf("y%d", i+1)
	}
	return names
}

// SolveSystemExpr parses one expression per equation. Each may reference x
// and the state variables y1, …, ym.
func SolveSystemExpr(m Method, srcs []string, p SystemProblem, opts ...Option) (*SystemTrajectory, error) {
	if len(srcs) != len(p.Y0) {
		return nil, errors.NewDimensionError("ode.SolveSystemExpr", len(p.Y0), len(srcs), 0)
	}
	cfg := newConfig(opts)
	vars := append([]string{cfg.xName}, SystemVariables(len(srcs))...)
	progs := make([]*expr.Program, len(srcs))
	for i, src := range srcs {
		e, err := expr.Parse(src)
		if err != nil {
			return nil, err
		}
		if progs[i], err = e.Compile(vars...); err != nil {
			return nil, err
		}
	}

	f := func(x float64, y []float64) []float64 {
		args := make([]float64, 1+len(y))
		args[0] = x
		copy(args[1:], y)
		out := make([]float64, len(progs))
		for i, p := range progs {
			out[i] = p.Raw(args...)
		}
		return out
	}
	return SolveSystem(m, f, p, opts...)
}
