package integration

import (
	"math"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Tabulated Gauss-Legendre rules on [-1, 1].
var gaussRules = map[int]struct{ nodes, weights []float64 }{
	2: {
		nodes:   []float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)},
		weights: []float64{1, 1},
	},
	3: {
		nodes:   []float64{-math.Sqrt(3.0 / 5.0), 0, math.Sqrt(3.0 / 5.0)},
		weights: []float64{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0},
	},
}

func gaussRule(op string, points int) ([]float64, []float64, error) {
	r, ok := gaussRules[points]
	if !ok {
		return nil, nil, errors.NewPreconditionErrorf(op, errors.ErrUnsupportedPoints,
			"%d points requested; 2 and 3 are supported", points)
	}
	return r.nodes, r.weights, nil
}

// GaussNodes returns the abscissas in [a, b] at which GaussRule expects the
// integrand to be sampled. Only 2 and 3 points are supported.
func GaussNodes(a, b float64, points int) ([]float64, error) {
	if err := checkInterval(a, b); err != nil {
		return nil, err
	}
	nodes, _, err := gaussRule("integration.GaussNodes", points)
	if err != nil {
		return nil, err
	}
	mid, half := (a+b)/2, (b-a)/2
	out := make([]float64, len(nodes))
	for i, t := range nodes {
		out[i] = mid + half*t
	}
	return out, nil
}

// GaussRule applies the Gauss-Legendre rule whose point count is len(fx).
// fx[i] must be the integrand at GaussNodes(a, b, len(fx))[i].
func GaussRule(fx []float64, a, b float64) (*Result, error) {
	const op = "integration.Gauss"
	_, weights, err := gaussRule(op, len(fx))
	if err != nil {
		return nil, err
	}
	if err := errors.CheckNumericalStability(op, fx, 0); err != nil {
		return nil, err
	}
	var sum float64
	for i, w := range weights {
		sum += w * fx[i]
	}
	return newResult(GaussLegendre, (b-a)/2*sum, a, b, len(fx), 0), nil
}
