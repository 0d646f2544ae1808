package roots

import (
	"github.com/YuminosukeSato/scinum/expr"
	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// ExprProblem is Problem with functions given as expressions in x.
type ExprProblem struct {
	F          string
	Derivative string
	G          string
	Seeds      []float64
}

// FindExpr compiles the expressions of p and dispatches to Find. For
// NewtonRaphson an empty Derivative is derived symbolically from F.
func FindExpr(m Method, p ExprProblem, opts ...Option) (*Result, error) {
	var prob Problem
	prob.Seeds = p.Seeds

	compile := func(src string) (Func, error) {
		f, err := expr.Func1(src, "x")
		if err != nil {
			return nil, err
		}
		return Func(f), nil
	}

	var err error
	if p.F != "" {
		if prob.F, err = compile(p.F); err != nil {
			return nil, errors.Wrap(err, "f")
		}
	}
	if p.G != "" {
		if prob.G, err = compile(p.G); err != nil {
			return nil, errors.Wrap(err, "g")
		}
	}
	if m == NewtonRaphson {
		switch {
		case p.Derivative != "":
			if prob.Derivative, err = compile(p.Derivative); err != nil {
				return nil, errors.Wrap(err, "derivative")
			}
		case p.F != "":
			fe, err := expr.Parse(p.F)
			if err != nil {
				return nil, err
			}
			prog, err := fe.Diff("x").Compile("x")
			if err != nil {
				return nil, errors.Wrap(err, "derivative")
			}
			prob.Derivative = func(x float64) float64 { return prog.Raw(x) }
		}
	}
	return Find(m, prob, opts...)
}
