package interpolation

import (
	"strings"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Method selects an interpolation algorithm.
type Method int

const (
	// NewtonForward builds divided differences on the nodes as given.
	NewtonForward Method = iota
	// NewtonBackward builds divided differences on the reversed nodes.
	NewtonBackward
	// Neville evaluates the interpolant directly with Neville's tableau.
	Neville
)

var methodNames = map[Method]string{
	NewtonForward:  "adelante",
	NewtonBackward: "atras",
	Neville:        "neville",
}

// String returns the method identifier accepted by ParseMethod.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMethod maps an identifier ("adelante", "atras", "neville") to a Method.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for m, s := range methodNames {
		if s == key {
			return m, nil
		}
	}
	return 0, errors.NewValidationError("method", "unknown interpolation method", name)
}

// Interpolate dispatches to the algorithm selected by m.
func Interpolate(m Method, x, y []float64, xEval float64) (*Result, error) {
	switch m {
	case NewtonForward:
		return Forward(x, y, xEval)
	case NewtonBackward:
		return Backward(x, y, xEval)
	case Neville:
		return NevilleEval(x, y, xEval)
	default:
		return nil, errors.NewValidationError("method", "unknown interpolation method", int(m))
	}
}
