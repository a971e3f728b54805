// Package calc evaluates restricted arithmetic expressions.
//
// The grammar covers decimal literals, the binary operators + - * / % with
// the usual precedence and left associativity, unary + and -, and
// parentheses:
//
//	expr    = term { ("+" | "-") term } .
//	term    = unary { ("*" | "/" | "%") unary } .
//	unary   = ("+" | "-") unary | primary .
//	primary = number | "(" expr ")" .
//
// % is a floating-point remainder that keeps the sign of the dividend.
// A result that is not a finite number (division or remainder by zero) is an
// evaluation error, never +Inf or NaN.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidExpression is returned when the input contains characters
	// outside the accepted set. Such input is never parsed.
	ErrInvalidExpression = errors.New("invalid characters in expression")

	// ErrEvaluation is returned for malformed syntax or a non-finite result.
	ErrEvaluation = errors.New("calculation error")
)

// Validate reports ErrInvalidExpression if expr contains anything other than
// digits, + - * / ( ) . % and whitespace.
func Validate(expr string) error {
	for _, r := range expr {
		switch {
		case r >= '0' && r <= '9':
		case strings.ContainsRune("+-*/().% \t\n\r\f\v", r):
		default:
			return fmt.Errorf("%w: %q", ErrInvalidExpression, r)
		}
	}
	return nil
}

// Eval validates and evaluates expr.
func Eval(expr string) (float64, error) {
	if err := Validate(expr); err != nil {
		return 0, err
	}

	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}

	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if !p.done() {
		return 0, fmt.Errorf("%w: unexpected %s", ErrEvaluation, p.peek())
	}

	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result is not a finite number", ErrEvaluation)
	}
	return v, nil
}

// Format renders v the way a browser prints a number: the shortest
// representation that round-trips, in exponent form below 1e-6 and from
// 1e21 up ("1e-7", "1e+21").
func Format(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	if abs := math.Abs(v); abs < 1e-6 || abs >= 1e21 {
		return exponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// exponent drops the zero padding Go puts on exponents ("1e-07" to "1e-7").
func exponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	num  float64
	op   byte
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokNumber:
		return fmt.Sprintf("number at %d", t.pos)
	case tokLParen:
		return fmt.Sprintf("'(' at %d", t.pos)
	case tokRParen:
		return fmt.Sprintf("')' at %d", t.pos)
	default:
		return fmt.Sprintf("'%c' at %d", t.op, t.pos)
	}
}

func tokenize(s string) ([]token, error) {
	var toks []token

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			i++

		case (c >= '0' && c <= '9') || c == '.':
			start := i
			dots := 0
			for i < len(s) && ((s[i] >= '0' && s[i] <= '9') || s[i] == '.') {
				if s[i] == '.' {
					dots++
				}
				i++
			}
			lit := s[start:i]
			if dots > 1 || lit == "." {
				return nil, fmt.Errorf("%w: malformed number %q", ErrEvaluation, lit)
			}
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed number %q", ErrEvaluation, lit)
			}
			toks = append(toks, token{kind: tokNumber, num: v, pos: start})

		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i})
			i++

		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i})
			i++

		case strings.IndexByte("+-*/%", c) >= 0:
			toks = append(toks, token{kind: tokOp, op: c, pos: i})
			i++

		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidExpression, c)
		}
	}

	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) acceptOp(ops string) (byte, bool) {
	if p.done() {
		return 0, false
	}
	t := p.peek()
	if t.kind != tokOp || strings.IndexByte(ops, t.op) < 0 {
		return 0, false
	}
	p.pos++
	return t.op, true
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := p.acceptOp("+-")
		if !ok {
			return left, nil
		}
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := p.acceptOp("*/%")
		if !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case '*':
			left *= right
		case '/':
			left /= right
		case '%':
			left = math.Mod(left, right)
		}
	}
}

func (p *parser) unary() (float64, error) {
	if op, ok := p.acceptOp("+-"); ok {
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == '-' {
			return -v, nil
		}
		return v, nil
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	if p.done() {
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrEvaluation)
	}

	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.pos++
		return t.num, nil

	case tokLParen:
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.done() || p.peek().kind != tokRParen {
			return 0, fmt.Errorf("%w: missing ')' for '(' at %d", ErrEvaluation, t.pos)
		}
		p.pos++
		return v, nil

	default:
		return 0, fmt.Errorf("%w: unexpected %s", ErrEvaluation, t)
	}
}
