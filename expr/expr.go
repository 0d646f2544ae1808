// Package expr parses and evaluates arithmetic expressions over named
// variables.
//
// Expressions are restricted to numbers, variables, the operators
// + - * / ^ (also written **), parentheses, the functions sin, cos, tan,
// exp, log, sqrt and abs, and the constants pi and e. Evaluation walks the
// parsed tree; nothing is ever executed as code. Parsed expressions and
// compiled programs are immutable and safe for concurrent use.
//
//	f, err := expr.Parse("x^2 - 4")
//	p, err := f.Compile("x")
//	v, err := p.Call(3) // 5
package expr

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Expr is a parsed expression.
type Expr struct {
	src  string
	root Node
}

// Parse parses src. Unknown functions, a function used without an argument,
// extra arguments and syntax errors are reported as *errors.ExpressionError.
func Parse(src string) (*Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	if p.peek().kind == tokEOF {
		return nil, errors.NewExpressionError(src, -1, "empty expression")
	}
	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.fail(t, "unexpected %s", t.describe())
	}
	return &Expr{src: src, root: root}, nil
}

// MustParse is like Parse but panics on error. Intended for literals in
// tests and examples.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// FromNode wraps an existing tree.
func FromNode(n Node) *Expr {
	return &Expr{src: n.String(), root: n}
}

// Root returns the expression tree.
func (e *Expr) Root() Node { return e.root }

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string { return e.src }

// String returns the canonical form of the expression.
func (e *Expr) String() string { return e.root.String() }

// Vars returns the sorted, de-duplicated variable names referenced by e.
func (e *Expr) Vars() []string {
	seen := map[string]bool{}
	walk(e.root, func(n Node) {
		if v, ok := n.(*Var); ok {
			seen[v.Name] = true
		}
	})
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Eval evaluates e with the given variable bindings. A variable missing from
// bindings is an *errors.ExpressionError; a NaN or infinite result is an
// *errors.NumericalInstabilityError.
func (e *Expr) Eval(bindings map[string]float64) (float64, error) {
	for _, name := range e.Vars() {
		if _, ok := bindings[name]; !ok {
			return 0, errors.NewExpressionError(e.src, -1, "unbound variable "+name)
		}
	}
	v := evalNode(e.root, bindings)
	if err := errors.CheckScalar("expr.Eval", v, 0); err != nil {
		return 0, err
	}
	return v, nil
}

func evalNode(n Node, b map[string]float64) float64 {
	switch t := n.(type) {
	case *Num:
		return t.Value
	case *Var:
		return b[t.Name]
	case *Const:
		return constValue(t.Name)
	case *Unary:
		return -evalNode(t.X, b)
	case *Binary:
		return applyBinary(t.Op, evalNode(t.L, b), evalNode(t.R, b))
	case *Call:
		return applyFunc(t.Fn, evalNode(t.Arg, b))
	}
	return math.NaN()
}

func constValue(name string) float64 {
	if name == "pi" {
		return math.Pi
	}
	return math.E
}

func applyBinary(op byte, l, r float64) float64 {
	switch op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	default:
		return math.Pow(l, r)
	}
}

func applyFunc(fn string, x float64) float64 {
	switch fn {
	case "sin":
		return math.Sin(x)
	case "cos":
		return math.Cos(x)
	case "tan":
		return math.Tan(x)
	case "exp":
		return math.Exp(x)
	case "log":
		return math.Log(x)
	case "sqrt":
		return math.Sqrt(x)
	default:
		return math.Abs(x)
	}
}
