// Package calc evaluates restricted arithmetic expressions. The accepted
// grammar is closed: numeric literals, + - * /, and parentheses. Any other
// token is rejected at tokenization time, so the evaluator can never be
// used to run anything but plain arithmetic.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidToken marks input containing anything outside the grammar.
	ErrInvalidToken = errors.New("expression contains an unsupported token")
	// ErrSyntax marks structurally malformed input ("2 +", "()", "1 2").
	ErrSyntax = errors.New("malformed expression")
	// ErrDivideByZero is returned for division by zero.
	ErrDivideByZero = errors.New("division by zero")
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	value float64
}

// Validate reports whether the expression tokenizes within the restricted
// grammar. It does not check structure; use Eval for that.
func Validate(expr string) error {
	_, err := tokenize(expr)
	return err
}

// Eval parses and evaluates the expression with the usual precedence.
func Eval(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, ErrSyntax
	}

	p := &parser{tokens: tokens}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, ErrSyntax
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrSyntax
	}
	return v, nil
}

// Format renders a result without a spurious fractional part:
// 1035.0 -> "1035", 2.5 -> "2.5".
func Format(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+':
			tokens = append(tokens, token{kind: tokPlus})
			i++
		case c == '-':
			tokens = append(tokens, token{kind: tokMinus})
			i++
		case c == '*':
			tokens = append(tokens, token{kind: tokStar})
			i++
		case c == '/':
			tokens = append(tokens, token{kind: tokSlash})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen})
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			v, err := strconv.ParseFloat(expr[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidToken, expr[i:j])
			}
			tokens = append(tokens, token{kind: tokNumber, value: v})
			i = j
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidToken, string(c))
		}
	}
	return tokens, nil
}

// parser is a plain recursive-descent evaluator:
//
//	expr   := term   (('+'|'-') term)*
//	term   := factor (('*'|'/') factor)*
//	factor := number | '-' factor | '(' expr ')'
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos], true
	}
	return token{}, false
}

func (p *parser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || (t.kind != tokPlus && t.kind != tokMinus) {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if t.kind == tokPlus {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	v, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || (t.kind != tokStar && t.kind != tokSlash) {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if t.kind == tokStar {
			v *= rhs
		} else {
			if rhs == 0 {
				return 0, ErrDivideByZero
			}
			v /= rhs
		}
	}
}

func (p *parser) parseFactor() (float64, error) {
	t, ok := p.peek()
	if !ok {
		return 0, ErrSyntax
	}
	switch t.kind {
	case tokNumber:
		p.pos++
		return t.value, nil
	case tokMinus:
		p.pos++
		v, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -v, nil
	case tokLParen:
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		next, ok := p.peek()
		if !ok || next.kind != tokRParen {
			return 0, ErrSyntax
		}
		p.pos++
		return v, nil
	default:
		return 0, ErrSyntax
	}
}

// Describe renders "expr = result" for handler messages.
func Describe(expr string, v float64) string {
	return strings.TrimSpace(expr) + " = " + Format(v)
}
