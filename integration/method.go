package integration

import (
	"strings"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Method selects a quadrature rule.
type Method int

const (
	Trapezoid Method = iota
	Simpson13
	Simpson38
	GaussLegendre
	Richardson
	Adaptive
)

var methodNames = []string{
	Trapezoid:     "trapecio",
	Simpson13:     "simpson_1_3",
	Simpson38:     "simpson_3_8",
	GaussLegendre: "gauss",
	Richardson:    "richardson",
	Adaptive:      "adaptativa",
}

// String returns the identifier accepted by ParseMethod.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

// ParseMethod maps an identifier such as "simpson_3_8" to a Method.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, s := range methodNames {
		if s == key {
			return Method(i), nil
		}
	}
	return 0, errors.NewValidationError("method", "unknown integration method", name)
}

// Integrate samples f as rule m requires and applies it. n is the number of
// subintervals; for GaussLegendre it is the number of points, and for
// Richardson the coarse level (the fine level is 2n). Adaptive ignores n.
func Integrate(m Method, f Func, a, b float64, n int, opts ...Option) (*Result, error) {
	switch m {
	case Trapezoid, Simpson13, Simpson38:
		fx, err := Sample(f, a, b, n)
		if err != nil {
			return nil, err
		}
		switch m {
		case Trapezoid:
			return TrapezoidRule(fx, a, b)
		case Simpson13:
			return Simpson13Rule(fx, a, b)
		default:
			return Simpson38Rule(fx, a, b)
		}
	case GaussLegendre:
		nodes, err := GaussNodes(a, b, n)
		if err != nil {
			return nil, err
		}
		fx := make([]float64, len(nodes))
		for i, x := range nodes {
			fx[i] = f(x)
		}
		return GaussRule(fx, a, b)
	case Richardson:
		coarse, err := Sample(f, a, b, n)
		if err != nil {
			return nil, err
		}
		fine, err := Sample(f, a, b, 2*n)
		if err != nil {
			return nil, err
		}
		return RichardsonRule(coarse, fine, a, b)
	case Adaptive:
		return AdaptiveSimpson(f, a, b, opts...)
	default:
		return nil, errors.NewValidationError("method", "unknown integration method", int(m))
	}
}
