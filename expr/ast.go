package expr

import (
	"strconv"
	"strings"
)

// Node is a node of a parsed expression tree. Trees are immutable once built.
type Node interface {
	String() string
	prec() int
}

// operator precedence used when printing
const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

// Num is a numeric literal.
type Num struct{ Value float64 }

// Var is a reference to a bound variable.
type Var struct{ Name string }

// Const is one of the allow-listed constants (pi, e).
type Const struct{ Name string }

// Unary is arithmetic negation.
type Unary struct{ X Node }

// Binary is one of + - * / ^.
type Binary struct {
	Op   byte
	L, R Node
}

// Call applies an allow-listed function to a single argument.
type Call struct {
	Fn  string
	Arg Node
}

func (n *Num) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *Num) prec() int {
	if n.Value < 0 {
		return precUnary
	}
	return precAtom
}

func (v *Var) String() string   { return v.Name }
func (v *Var) prec() int        { return precAtom }
func (c *Const) String() string { return c.Name }
func (c *Const) prec() int      { return precAtom }

func (u *Unary) String() string {
	return "-" + wrap(u.X, precUnary+1)
}

func (u *Unary) prec() int { return precUnary }

func (b *Binary) String() string {
	var sb strings.Builder
	p := b.prec()
	switch b.Op {
	case '^':
		// right-associative: a^b^c prints without parens on the right
		sb.WriteString(wrap(b.L, p+1))
		sb.WriteString("^")
		sb.WriteString(wrap(b.R, p))
	case '-', '/':
		sb.WriteString(wrap(b.L, p))
		sb.WriteString(" " + string(b.Op) + " ")
		sb.WriteString(wrap(b.R, p+1))
	default:
		sb.WriteString(wrap(b.L, p))
		sb.WriteString(" " + string(b.Op) + " ")
		sb.WriteString(wrap(b.R, p))
	}
	return sb.String()
}

func (b *Binary) prec() int {
	switch b.Op {
	case '+', '-':
		return precSum
	case '*', '/':
		return precProduct
	default:
		return precPower
	}
}

func (c *Call) String() string {
	return c.Fn + "(" + c.Arg.String() + ")"
}

func (c *Call) prec() int { return precAtom }

func wrap(n Node, min int) string {
	if n.prec() < min {
		return "(" + n.String() + ")"
	}
	return n.String()
}

// walk visits every node in depth-first order.
func walk(n Node, fn func(Node)) {
	fn(n)
	switch t := n.(type) {
	case *Unary:
		walk(t.X, fn)
	case *Binary:
		walk(t.L, fn)
		walk(t.R, fn)
	case *Call:
		walk(t.Arg, fn)
	}
}
