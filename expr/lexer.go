package expr

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp // + - * / ^
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
	op   byte
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNum, tokIdent:
		return fmt.Sprintf("%q", t.text)
	default:
		return fmt.Sprintf("'%s'", t.text)
	}
}

// lex splits src into tokens. "**" is folded into '^'.
func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	// byte offsets for error positions
	offs := make([]int, len(rs)+1)
	o := 0
	for i, r := range rs {
		offs[i] = o
		o += len(string(r))
	}
	offs[len(rs)] = o

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			for i < len(rs) && (unicode.IsDigit(rs[i]) || rs[i] == '.') {
				i++
			}
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					for j < len(rs) && unicode.IsDigit(rs[j]) {
						j++
					}
					i = j
				}
			}
			text := string(rs[start:i])
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, errors.NewExpressionError(src, offs[start], fmt.Sprintf("malformed number %q", text))
			}
			toks = append(toks, token{kind: tokNum, pos: offs[start], text: text, num: v})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, pos: offs[start], text: string(rs[start:i])})
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, pos: offs[i], text: "**", op: '^'})
			i += 2
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '^':
			toks = append(toks, token{kind: tokOp, pos: offs[i], text: string(r), op: byte(r)})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, pos: offs[i], text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, pos: offs[i], text: ")"})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, pos: offs[i], text: ","})
			i++
		default:
			return nil, errors.NewExpressionError(src, offs[i], fmt.Sprintf("unexpected character %q", r))
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: offs[len(rs)]})
	return toks, nil
}
