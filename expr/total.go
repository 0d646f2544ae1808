package expr

import (
	"fmt"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// TotalDerivatives returns f and its total derivatives along solutions of
// y' = f(x, y): out[0] = f, out[k] = ∂out[k-1]/∂x + ∂out[k-1]/∂y · f.
// The result has order+1 entries.
func TotalDerivatives(f *Expr, x, y string, order int) ([]*Expr, error) {
	if order < 0 {
		return nil, errors.NewValidationError("order", "must be non-negative", order)
	}
	out := make([]*Expr, 0, order+1)
	cur := f.Simplify()
	out = append(out, cur)
	fy := cur.root
	for k := 1; k <= order; k++ {
		next := add(derive(cur.root, x), mul(derive(cur.root, y), fy))
		cur = FromNode(next)
		out = append(out, cur)
	}
	return out, nil
}

// Differentiator produces the total derivatives a Taylor method needs.
// Implementations must be safe for concurrent use.
type Differentiator interface {
	// TotalDerivatives returns order+1 programs in (x, y) argument order:
	// f, f', ..., f^(order).
	TotalDerivatives(f *Expr, order int) ([]*Program, error)
}

// Symbolic is the Differentiator backed by Diff. Variable names default to
// "x" and "y".
type Symbolic struct {
	X, Y string
}

// TotalDerivatives implements Differentiator.
func (s Symbolic) TotalDerivatives(f *Expr, order int) ([]*Program, error) {
	x, y := s.X, s.Y
	if x == "" {
		x = "x"
	}
	if y == "" {
		y = "y"
	}
	ders, err := TotalDerivatives(f, x, y, order)
	if err != nil {
		return nil, err
	}
	progs := make([]*Program, len(ders))
	for i, d := range ders {
		p, err := d.Compile(x, y)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("derivative %d", i))
		}
		progs[i] = p
	}
	return progs, nil
}
