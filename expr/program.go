package expr

import (
	"fmt"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Program is an expression compiled against a fixed, ordered list of
// variables. Call binds arguments by position, avoiding map lookups in inner
// loops such as ODE steppers.
type Program struct {
	src  string
	vars []string
	fn   func(args []float64) float64
}

// Compile resolves every variable of e to a position in vars. A variable of
// e that is not listed is an *errors.ExpressionError. Listed names that e
// does not use are allowed.
func (e *Expr) Compile(vars ...string) (*Program, error) {
	slots := make(map[string]int, len(vars))
	for i, v := range vars {
		if constants[v] || functions[v] {
			return nil, errors.NewExpressionError(e.src, -1, fmt.Sprintf("%q is reserved and cannot be a variable", v))
		}
		slots[v] = i
	}
	for _, name := range e.Vars() {
		if _, ok := slots[name]; !ok {
			return nil, errors.NewExpressionError(e.src, -1, "unbound variable "+name)
		}
	}
	return &Program{
		src:  e.src,
		vars: append([]string(nil), vars...),
		fn:   compileNode(e.root, slots),
	}, nil
}

// Vars returns the argument order of p.
func (p *Program) Vars() []string { return append([]string(nil), p.vars...) }

// Call evaluates p. The number of args must match the compiled variables.
// A NaN or infinite result is an *errors.NumericalInstabilityError.
func (p *Program) Call(args ...float64) (float64, error) {
	if len(args) != len(p.vars) {
		return 0, errors.NewDimensionError("expr.Program.Call", len(p.vars), len(args), 0)
	}
	v := p.fn(args)
	if err := errors.CheckScalar("expr("+p.src+")", v, 0); err != nil {
		return 0, err
	}
	return v, nil
}

// Raw evaluates p without result checks. NaN and Inf are returned as is;
// callers that check every value themselves use it in hot loops.
func (p *Program) Raw(args ...float64) float64 {
	return p.fn(args)
}

func compileNode(n Node, slots map[string]int) func([]float64) float64 {
	switch t := n.(type) {
	case *Num:
		v := t.Value
		return func([]float64) float64 { return v }
	case *Var:
		i := slots[t.Name]
		return func(a []float64) float64 { return a[i] }
	case *Const:
		v := constValue(t.Name)
		return func([]float64) float64 { return v }
	case *Unary:
		x := compileNode(t.X, slots)
		return func(a []float64) float64 { return -x(a) }
	case *Binary:
		l, r, op := compileNode(t.L, slots), compileNode(t.R, slots), t.Op
		return func(a []float64) float64 { return applyBinary(op, l(a), r(a)) }
	case *Call:
		x, fn := compileNode(t.Arg, slots), t.Fn
		return func(a []float64) float64 { return applyFunc(fn, x(a)) }
	}
	panic(fmt.Sprintf("expr: unexpected node %T", n))
}

// Func1 parses src and compiles it as a function of the single variable v.
func Func1(src, v string) (func(float64) float64, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	p, err := e.Compile(v)
	if err != nil {
		return nil, err
	}
	return func(x float64) float64 { return p.fn([]float64{x}) }, nil
}

// Func2 parses src and compiles it as a function of (x, y) under the given
// variable names.
func Func2(src, x, y string) (func(float64, float64) float64, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	p, err := e.Compile(x, y)
	if err != nil {
		return nil, err
	}
	return func(a, b float64) float64 { return p.fn([]float64{a, b}) }, nil
}
