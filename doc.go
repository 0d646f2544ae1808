// Package scinum provides classic numerical methods for Go: polynomial
// interpolation, finite-difference differentiation, quadrature, dense
// linear systems, initial value problems and root finding.
//
// Every operation returns its primary result together with a trace of the
// intermediate tables, elimination steps or iteration history, so results
// can be inspected or displayed step by step.
//
// # Installation
//
//	go get github.com/YuminosukeSato/scinum
//
// # Quick Start
//
// Solving y' = -2y, y(0) = 1 on [0, 1] with the classical Runge-Kutta
// method:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scinum/ode"
//	)
//
//	func main() {
//	    traj, err := ode.SolveExpr(ode.RK4, "-2*y", ode.Problem{X0: 0, Y0: 1, XF: 1, N: 20})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(traj.Y[len(traj.Y)-1])
//	}
//
// # Packages
//
//   - interpolation: Newton forward and backward divided differences, Neville
//   - differentiation: 2, 3 and 5 point stencils, Richardson extrapolation
//   - integration: trapezoid, Simpson 1/3 and 3/8, Gauss-Legendre, Richardson, adaptive Simpson
//   - linsys: Gaussian elimination without, with partial and with total pivoting; LU, PLU, Cholesky
//   - ode: Euler, Taylor 2 to 4, RK3, RK4, RKF45, Adams-Bashforth, Adams-Moulton
//   - roots: bisection, false position, secant, Newton-Raphson, fixed point, Müller
//   - expr: safe expression parser, evaluator and symbolic derivatives
//   - metrics: error measures against reference values and residuals
//   - chart: PNG/SVG charts of trajectories, interpolants and convergence
//   - core/parallel: parallel index loops
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// The scinum command (cmd/scinum) exposes every method on the command line
// and prints results as JSON or YAML.
//
// # Expressions
//
// Functions given as strings are parsed by package expr into a syntax tree
// restricted to arithmetic, the functions sin, cos, tan, exp, log, sqrt and
// abs, and the constants pi and e. Nothing else is evaluated.
//
// # Errors
//
// Failures are typed: *errors.DimensionError and *errors.ValidationError
// for malformed input, *errors.PreconditionError for violated numerical
// preconditions (use errors.Is with sentinels such as errors.ErrOddIntervals),
// *errors.ExpressionError for bad expressions and
// *errors.NumericalInstabilityError when a computation produces NaN or Inf.
// Root finders that exhaust their iteration budget return the last iterate
// with Converged == false and raise an errors.ConvergenceWarning.
//
// # License
//
// scinum is released under the MIT License.
package scinum
