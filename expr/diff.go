package expr

import "math"

// Diff returns the symbolic derivative of e with respect to v. The result
// is lightly simplified: constants are folded and 0/1 identities removed.
func (e *Expr) Diff(v string) *Expr {
	return FromNode(derive(e.root, v))
}

// Simplify returns e with constant folding and 0/1 identities applied.
func (e *Expr) Simplify() *Expr {
	return FromNode(simplify(e.root))
}

func derive(n Node, v string) Node {
	switch t := n.(type) {
	case *Num, *Const:
		return num(0)
	case *Var:
		if t.Name == v {
			return num(1)
		}
		return num(0)
	case *Unary:
		return neg(derive(t.X, v))
	case *Binary:
		return deriveBinary(t, v)
	case *Call:
		return mul(deriveCall(t), derive(t.Arg, v))
	}
	return num(0)
}

func deriveBinary(b *Binary, v string) Node {
	l, r := simplify(b.L), simplify(b.R)
	dl, dr := derive(b.L, v), derive(b.R, v)
	switch b.Op {
	case '+':
		return add(dl, dr)
	case '-':
		return sub(dl, dr)
	case '*':
		return add(mul(dl, r), mul(l, dr))
	case '/':
		return div(sub(mul(dl, r), mul(l, dr)), pow(r, num(2)))
	}
	// power rule variants
	switch {
	case !dependsOn(b.R, v):
		return mul(mul(r, pow(l, sub(r, num(1)))), dl)
	case !dependsOn(b.L, v):
		return mul(mul(pow(l, r), call("log", l)), dr)
	default:
		// d(u^w) = u^w (w' ln u + w u'/u)
		return mul(pow(l, r), add(mul(dr, call("log", l)), div(mul(r, dl), l)))
	}
}

// deriveCall returns the outer derivative f'(u) for a call f(u).
func deriveCall(c *Call) Node {
	u := simplify(c.Arg)
	switch c.Fn {
	case "sin":
		return call("cos", u)
	case "cos":
		return neg(call("sin", u))
	case "tan":
		return div(num(1), pow(call("cos", u), num(2)))
	case "exp":
		return call("exp", u)
	case "log":
		return div(num(1), u)
	case "sqrt":
		return div(num(1), mul(num(2), call("sqrt", u)))
	default: // abs
		return div(u, call("abs", u))
	}
}

func dependsOn(n Node, v string) bool {
	found := false
	walk(n, func(n Node) {
		if x, ok := n.(*Var); ok && x.Name == v {
			found = true
		}
	})
	return found
}

func simplify(n Node) Node {
	switch t := n.(type) {
	case *Unary:
		return neg(simplify(t.X))
	case *Binary:
		l, r := simplify(t.L), simplify(t.R)
		switch t.Op {
		case '+':
			return add(l, r)
		case '-':
			return sub(l, r)
		case '*':
			return mul(l, r)
		case '/':
			return div(l, r)
		default:
			return pow(l, r)
		}
	case *Call:
		return call(t.Fn, simplify(t.Arg))
	}
	return n
}

// num folds -0 into 0 so folded constants never print as "-0".
func num(v float64) Node {
	if v == 0 {
		v = 0
	}
	return &Num{Value: v}
}

func isNum(n Node, v float64) bool {
	x, ok := n.(*Num)
	return ok && x.Value == v
}

func numValue(n Node) (float64, bool) {
	x, ok := n.(*Num)
	if !ok {
		return 0, false
	}
	return x.Value, true
}

func neg(x Node) Node {
	if v, ok := numValue(x); ok {
		return num(-v)
	}
	if u, ok := x.(*Unary); ok {
		return u.X
	}
	return &Unary{X: x}
}

func add(l, r Node) Node {
	a, aok := numValue(l)
	b, bok := numValue(r)
	switch {
	case aok && bok:
		return num(a + b)
	case aok && a == 0:
		return r
	case bok && b == 0:
		return l
	}
	if u, ok := r.(*Unary); ok {
		return &Binary{Op: '-', L: l, R: u.X}
	}
	return &Binary{Op: '+', L: l, R: r}
}

func sub(l, r Node) Node {
	a, aok := numValue(l)
	b, bok := numValue(r)
	switch {
	case aok && bok:
		return num(a - b)
	case aok && a == 0:
		return neg(r)
	case bok && b == 0:
		return l
	}
	if u, ok := r.(*Unary); ok {
		return &Binary{Op: '+', L: l, R: u.X}
	}
	return &Binary{Op: '-', L: l, R: r}
}

func mul(l, r Node) Node {
	a, aok := numValue(l)
	b, bok := numValue(r)
	switch {
	case aok && bok:
		return num(a * b)
	case (aok && a == 0) || (bok && b == 0):
		return num(0)
	case aok && a == 1:
		return r
	case bok && b == 1:
		return l
	case aok && a == -1:
		return neg(r)
	case bok && b == -1:
		return neg(l)
	case bok:
		// keep numeric factors on the left: x*2 -> 2*x
		return &Binary{Op: '*', L: r, R: l}
	}
	return &Binary{Op: '*', L: l, R: r}
}

func div(l, r Node) Node {
	a, aok := numValue(l)
	b, bok := numValue(r)
	switch {
	case aok && bok && b != 0:
		return num(a / b)
	case aok && a == 0 && !(bok && b == 0):
		return num(0)
	case bok && b == 1:
		return l
	}
	return &Binary{Op: '/', L: l, R: r}
}

func pow(l, r Node) Node {
	a, aok := numValue(l)
	b, bok := numValue(r)
	switch {
	case aok && bok:
		if v := math.Pow(a, b); !math.IsNaN(v) && !math.IsInf(v, 0) {
			return num(v)
		}
	case bok && b == 0:
		return num(1)
	case bok && b == 1:
		return l
	case aok && a == 1:
		return num(1)
	}
	return &Binary{Op: '^', L: l, R: r}
}

func call(fn string, x Node) Node {
	return &Call{Fn: fn, Arg: x}
}
