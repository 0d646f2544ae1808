package expr

import (
	"fmt"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// functions and constants accepted by the parser
var (
	functions = map[string]bool{
		"sin": true, "cos": true, "tan": true,
		"exp": true, "log": true, "sqrt": true, "abs": true,
	}
	constants = map[string]bool{"pi": true, "e": true}
)

// IsFunction reports whether name is an allow-listed function.
func IsFunction(name string) bool { return functions[name] }

type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) fail(t token, format string, args ...interface{}) error {
	return errors.NewExpressionError(p.src, t.pos, fmt.Sprintf(format, args...))
}

// expr := term (('+'|'-') term)*
func (p *parser) parseSum() (Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.op != '+' && t.op != '-') {
			return left, nil
		}
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.op, L: left, R: right}
	}
}

// term := unary (('*'|'/') unary)*
func (p *parser) parseProduct() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.op != '*' && t.op != '/') {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: t.op, L: left, R: right}
	}
}

// unary := ('-'|'+') unary | power
func (p *parser) parseUnary() (Node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.op == '-' || t.op == '+') {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.op == '+' {
			return x, nil
		}
		return &Unary{X: x}, nil
	}
	return p.parsePower()
}

// power := primary ('^' unary)?
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind == tokOp && t.op == '^' {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: '^', L: base, R: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		return &Num{Value: t.num}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			if !functions[t.text] {
				return nil, p.fail(t, "unknown function %q", t.text)
			}
			p.next()
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			switch c := p.next(); c.kind {
			case tokRParen:
			case tokComma:
				return nil, p.fail(c, "%s takes exactly one argument", t.text)
			default:
				return nil, p.fail(c, "expected ')' after argument of %s, found %s", t.text, c.describe())
			}
			return &Call{Fn: t.text, Arg: arg}, nil
		}
		if functions[t.text] {
			return nil, p.fail(t, "function %s requires an argument", t.text)
		}
		if constants[t.text] {
			return &Const{Name: t.text}, nil
		}
		return &Var{Name: t.text}, nil
	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.fail(c, "expected ')', found %s", c.describe())
		}
		return inner, nil
	default:
		return nil, p.fail(t, "unexpected %s", t.describe())
	}
}
