package differentiation

import (
	"strings"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Stencil selects a finite-difference formula by point count and
// orientation.
type Stencil int

const (
	TwoForward Stencil = iota
	TwoBackward
	TwoCentered
	ThreeForward
	ThreeBackward
	ThreeCentered
	FiveForward
	FiveBackward
	FiveCentered
)

type formula struct {
	name    string
	offsets []int
	weights []float64
	// divisor multiplies h in the denominator
	divisor float64
	// nodeSpacing formulas divide by the actual node distance instead of
	// divisor*h, so they also hold on non-uniform grids
	nodeSpacing bool
	order       int
}

// The "five" forward and backward stencils use four nodes, matching their
// minimum point counts; the centered one uses the classic 5-point weights.
var formulas = map[Stencil]formula{
	TwoForward:    {name: "2_adelante", offsets: []int{0, 1}, weights: []float64{-1, 1}, divisor: 1, nodeSpacing: true, order: 1},
	TwoBackward:   {name: "2_atras", offsets: []int{-1, 0}, weights: []float64{-1, 1}, divisor: 1, nodeSpacing: true, order: 1},
	TwoCentered:   {name: "2_centrada", offsets: []int{-1, 1}, weights: []float64{-1, 1}, divisor: 2, nodeSpacing: true, order: 2},
	ThreeForward:  {name: "3_adelante", offsets: []int{0, 1, 2}, weights: []float64{-3, 4, -1}, divisor: 2, order: 2},
	ThreeBackward: {name: "3_atras", offsets: []int{-2, -1, 0}, weights: []float64{1, -4, 3}, divisor: 2, order: 2},
	ThreeCentered: {name: "3_centrada", offsets: []int{-1, 0, 1}, weights: []float64{-1, 0, 1}, divisor: 2, order: 2},
	FiveForward:   {name: "5_adelante", offsets: []int{0, 1, 2, 3}, weights: []float64{-11, 18, -9, 2}, divisor: 6, order: 3},
	FiveBackward:  {name: "5_atras", offsets: []int{-3, -2, -1, 0}, weights: []float64{-2, 9, -18, 11}, divisor: 6, order: 3},
	FiveCentered:  {name: "5_centrada", offsets: []int{-2, -1, 1, 2}, weights: []float64{1, -8, 8, -1}, divisor: 12, order: 4},
}

// Stencils lists every stencil in declaration order.
var Stencils = []Stencil{
	TwoForward, TwoBackward, TwoCentered,
	ThreeForward, ThreeBackward, ThreeCentered,
	FiveForward, FiveBackward, FiveCentered,
}

func (s Stencil) formula() (formula, bool) {
	f, ok := formulas[s]
	return f, ok
}

// String returns the identifier accepted by ParseStencil, e.g. "5_centrada".
func (s Stencil) String() string {
	if f, ok := s.formula(); ok {
		return f.name
	}
	return "unknown"
}

// Order returns the truncation order of the formula in h.
func (s Stencil) Order() int {
	f, _ := s.formula()
	return f.order
}

// MinPoints returns the smallest node count for which at least one index is
// computable.
func (s Stencil) MinPoints() int {
	f, ok := s.formula()
	if !ok {
		return 0
	}
	return f.offsets[len(f.offsets)-1] - f.offsets[0] + 1
}

// ValidRange returns the inclusive index range [lo, hi] computable on n
// nodes. lo > hi when none is.
func (s Stencil) ValidRange(n int) (lo, hi int) {
	f, _ := s.formula()
	return -f.offsets[0], n - 1 - f.offsets[len(f.offsets)-1]
}

// ParseStencil maps an identifier such as "3_atras" to a Stencil.
func ParseStencil(name string) (Stencil, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Stencils {
		if formulas[s].name == key {
			return s, nil
		}
	}
	return 0, errors.NewValidationError("stencil", "unknown finite-difference stencil", name)
}

// apply evaluates the formula centered at index i of y, with neighbors
// stride positions apart. x supplies node positions for nodeSpacing
// formulas; h is the base spacing for the others.
func (f formula) apply(x, y []float64, i, stride int, h float64) float64 {
	if f.nodeSpacing {
		lo := i + stride*f.offsets[0]
		hi := i + stride*f.offsets[len(f.offsets)-1]
		return (y[hi] - y[lo]) / (x[hi] - x[lo])
	}
	var sum float64
	for k, off := range f.offsets {
		sum += f.weights[k] * y[i+stride*off]
	}
	return sum / (f.divisor * float64(stride) * h)
}
