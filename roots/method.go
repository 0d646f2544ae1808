package roots

import (
	"strings"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Method selects a root finding algorithm.
type Method int

const (
	Bisection Method = iota
	FalsePosition
	Secant
	NewtonRaphson
	FixedPoint
	Muller
)

var methodNames = [...]string{
	Bisection:     "biseccion",
	FalsePosition: "falsa_posicion",
	Secant:        "secante",
	NewtonRaphson: "newton_raphson",
	FixedPoint:    "punto_fijo",
	Muller:        "muller",
}

// String returns the identifier accepted by ParseMethod.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

// Seeds returns how many starting values m needs: the bracket for the
// bracketing methods, the initial guesses otherwise.
func (m Method) Seeds() int {
	switch m {
	case Bisection, FalsePosition, Secant:
		return 2
	case NewtonRaphson, FixedPoint:
		return 1
	case Muller:
		return 3
	default:
		return 0
	}
}

// IsBracketing reports whether m keeps an interval with a sign change.
func (m Method) IsBracketing() bool {
	return m == Bisection || m == FalsePosition
}

// ParseMethod maps an identifier such as "biseccion" to a Method.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, s := range methodNames {
		if s == key {
			return Method(i), nil
		}
	}
	return 0, errors.NewValidationError("method", "unknown root finding method", name)
}

// Problem carries the inputs of every method. F is required except for
// FixedPoint, which iterates G. Derivative is used by NewtonRaphson.
type Problem struct {
	F          Func
	Derivative Func
	G          Func
	Seeds      []float64
}

// Find dispatches p to method m.
func Find(m Method, p Problem, opts ...Option) (*Result, error) {
	if want := m.Seeds(); want == 0 {
		return nil, errors.NewValidationError("method", "unknown root finding method", int(m))
	} else if len(p.Seeds) != want {
		return nil, errors.NewDimensionError("roots."+m.String(), want, len(p.Seeds), 0)
	}
	need := func(f Func, name string) error {
		if f == nil {
			return errors.NewValidationError(name, m.String()+" requires "+name, nil)
		}
		return nil
	}
	s := p.Seeds

	switch m {
	case Bisection:
		if err := need(p.F, "f"); err != nil {
			return nil, err
		}
		return Bisect(p.F, s[0], s[1], opts...)
	case FalsePosition:
		if err := need(p.F, "f"); err != nil {
			return nil, err
		}
		return RegulaFalsi(p.F, s[0], s[1], opts...)
	case Secant:
		if err := need(p.F, "f"); err != nil {
			return nil, err
		}
		return SecantMethod(p.F, s[0], s[1], opts...)
	case NewtonRaphson:
		if err := need(p.F, "f"); err != nil {
			return nil, err
		}
		if err := need(p.Derivative, "derivative"); err != nil {
			return nil, err
		}
		return Newton(p.F, p.Derivative, s[0], opts...)
	case FixedPoint:
		if err := need(p.G, "g"); err != nil {
			return nil, err
		}
		return FixedPointIteration(p.G, s[0], opts...)
	case Muller:
		if err := need(p.F, "f"); err != nil {
			return nil, err
		}
		return MullerMethod(p.F, s[0], s[1], s[2], opts...)
	default:
		return nil, errors.NewValidationError("method", "unknown root finding method", int(m))
	}
}
