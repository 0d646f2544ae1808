package ode

import (
	"github.com/YuminosukeSato/scinum/expr"
)

// Option configures a solve.
type Option func(*config)

type config struct {
	diff           expr.Differentiator
	correctorIters int
	correctorTol   float64
	xName, yName   string
}

func newConfig(opts []Option) config {
	c := config{
		diff:           expr.Symbolic{},
		correctorIters: 3,
		correctorTol:   1e-12,
		xName:          "x",
		yName:          "y",
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithDifferentiator replaces the symbolic differentiator used by Taylor
// methods.
func WithDifferentiator(d expr.Differentiator) Option {
	return func(c *config) { c.diff = d }
}

// WithCorrectorIterations bounds the Adams-Moulton corrector iterations per
// step. Default 3.
func WithCorrectorIterations(n int) Option {
	return func(c *config) { c.correctorIters = n }
}

// WithCorrectorTolerance stops the corrector early once successive
// iterates differ by less than tol (max norm, relative to 1+|y|).
// Default 1e-12.
func WithCorrectorTolerance(tol float64) Option {
	return func(c *config) { c.correctorTol = tol }
}

// WithVariables names the independent and dependent variables of scalar
// expressions. Defaults "x" and "y".
func WithVariables(x, y string) Option {
	return func(c *config) { c.xName, c.yName = x, y }
}
